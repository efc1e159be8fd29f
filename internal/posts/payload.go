package posts

// PostInput is the JSON body for create and update. Pointers separate
// "field absent" from "field empty", which matters for partial updates.
type PostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Date    *string `json:"date"`
}

func (in *PostInput) field(name string) *string {
	switch name {
	case FieldTitle:
		return in.Title
	case FieldContent:
		return in.Content
	case FieldAuthor:
		return in.Author
	case FieldDate:
		return in.Date
	}
	return nil
}

type CreatePostResponse struct {
	Post      Post   `json:"post"`
	CreatedAt string `json:"createdAt"`
}
