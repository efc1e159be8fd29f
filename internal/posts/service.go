package posts

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"blog-service/internal/metrics"
)

type Service interface {
	Create(ctx context.Context, in PostInput) (Post, error)
	List(ctx context.Context, sortKey, direction *string) ([]Post, error)
	Update(ctx context.Context, id uint64, in PostInput) (Post, error)
	Delete(ctx context.Context, id uint64) (Post, error)
	Search(ctx context.Context, criteria map[string]string) []Post
	Schema() Schema
}

type service struct {
	schema Schema
	repo   Repository
	pub    Publisher
}

func NewService(schema Schema, repo Repository, pub Publisher) Service {
	metrics.PostsInStore.Set(float64(repo.Len()))
	return &service{schema: schema, repo: repo, pub: pub}
}

func (s *service) Schema() Schema { return s.schema }

// Create requires every schema field as a non-empty string and assigns
// the next id. Validation failures name all offending fields at once.
func (s *service) Create(ctx context.Context, in PostInput) (Post, error) {
	var details []string
	var p Post
	for _, f := range s.schema.Fields() {
		v := in.field(f)
		if v == nil || *v == "" {
			details = append(details, fmt.Sprintf("The %s field is required and must be a non-empty string.", f))
			continue
		}
		if f == FieldDate {
			if _, err := time.Parse(DateLayout, *v); err != nil {
				details = append(details, fmt.Sprintf("The date field must be an ISO-8601 date (%s). [%s]", DateLayout, *v))
				continue
			}
		}
		p.setField(f, *v)
	}
	if len(details) > 0 {
		return Post{}, &ValidationError{Code: CodeMissingOrInvalidField, Details: details}
	}

	created := s.repo.Insert(p)
	metrics.PostsInStore.Set(float64(s.repo.Len()))
	s.publish(ctx, EventCreated, created)
	return created, nil
}

// List returns the collection, sorted when both query params are given.
// The params come as a pair or not at all; a lone sort or direction is
// rejected rather than silently ignored.
func (s *service) List(ctx context.Context, sortKey, direction *string) ([]Post, error) {
	if sortKey == nil && direction == nil {
		return s.repo.List(), nil
	}
	if sortKey == nil || direction == nil {
		return nil, &ValidationError{
			Code:    CodeInvalidSortParams,
			Details: []string{"The sort and direction fields must be supplied together."},
		}
	}
	if *direction != DirectionAsc && *direction != DirectionDesc {
		return nil, &ValidationError{
			Code:    CodeInvalidSortDirection,
			Details: []string{fmt.Sprintf("The direction field is invalid. [%s]", *direction)},
		}
	}
	if !s.schema.Has(*sortKey) {
		return nil, &ValidationError{
			Code:    CodeInvalidSort,
			Details: []string{fmt.Sprintf("The sort field is invalid. [%s]", *sortKey)},
		}
	}

	out := s.repo.List()
	key, desc := *sortKey, *direction == DirectionDesc
	less := func(a, b *Post) bool {
		if key == FieldDate {
			return parseDate(a.Date).Before(parseDate(b.Date))
		}
		return a.Field(key) < b.Field(key)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out, nil
}

// Update changes only the supplied fields; the rest keep their values.
func (s *service) Update(ctx context.Context, id uint64, in PostInput) (Post, error) {
	var details []string
	set := map[string]string{}
	for _, f := range s.schema.Fields() {
		v := in.field(f)
		if v == nil {
			continue
		}
		if *v == "" {
			details = append(details, fmt.Sprintf("The %s field must be a non-empty string.", f))
			continue
		}
		if f == FieldDate {
			if _, err := time.Parse(DateLayout, *v); err != nil {
				details = append(details, fmt.Sprintf("The date field must be an ISO-8601 date (%s). [%s]", DateLayout, *v))
				continue
			}
		}
		set[f] = *v
	}
	if len(details) > 0 {
		return Post{}, &ValidationError{Code: CodeMissingOrInvalidField, Details: details}
	}

	updated, ok := s.repo.Update(id, func(p *Post) {
		for f, v := range set {
			p.setField(f, v)
		}
	})
	if !ok {
		return Post{}, &NotFoundError{ID: id}
	}
	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

// Delete removes the post and returns it as the confirmation.
func (s *service) Delete(ctx context.Context, id uint64) (Post, error) {
	removed, ok := s.repo.Remove(id)
	if !ok {
		return Post{}, &NotFoundError{ID: id}
	}
	metrics.PostsInStore.Set(float64(s.repo.Len()))
	s.publish(ctx, EventDeleted, removed)
	return removed, nil
}

// Search returns the posts matching every supplied non-empty criterion
// as a case-sensitive substring of the corresponding field. All
// criteria are applied together; no criteria means no results.
func (s *service) Search(ctx context.Context, criteria map[string]string) []Post {
	active := map[string]string{}
	for _, f := range s.schema.Fields() {
		if v := criteria[f]; v != "" {
			active[f] = v
		}
	}
	out := []Post{}
	if len(active) == 0 {
		return out
	}
	for _, p := range s.repo.List() {
		match := true
		for f, v := range active {
			if !strings.Contains(p.Field(f), v) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out
}

func (s *service) publish(ctx context.Context, typ string, p Post) {
	if err := s.pub.Publish(ctx, NewEvent(typ, p)); err != nil {
		log.Printf("publish %s: %v", typ, err)
	}
}

// Stored dates are validated on the way in, so a parse failure here
// should not happen; if it ever does, the value sorts first as the
// zero time instead of erroring mid-sort.
func parseDate(s string) time.Time {
	t, _ := time.Parse(DateLayout, s)
	return t
}
