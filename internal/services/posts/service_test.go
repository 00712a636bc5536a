package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
)

type storeStub struct {
	nextID int64
	posts  map[int64]model.CommunityPost
}

func newStoreStub() *storeStub {
	return &storeStub{nextID: 1, posts: map[int64]model.CommunityPost{}}
}

func (s *storeStub) Create(_ context.Context, post model.CommunityPost) (model.CommunityPost, error) {
	post.ID = s.nextID
	s.nextID++
	s.posts[post.ID] = post
	return post, nil
}

func (s *storeStub) FindByID(_ context.Context, postID int64) (model.CommunityPost, error) {
	post, ok := s.posts[postID]
	if !ok {
		return model.CommunityPost{}, pgrepo.ErrPostNotFound
	}
	return post, nil
}

func TestPublishPlainPost(t *testing.T) {
	svc := NewService(newStoreStub())

	post, err := svc.Publish(context.Background(), 1, PublishInput{Body: "reading at the park tonight"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if post.ID == 0 || post.AuthorID != 1 {
		t.Fatalf("unexpected post: %+v", post)
	}

	got, err := svc.Get(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Body != "reading at the park tonight" {
		t.Fatalf("unexpected body: %q", got.Body)
	}
}

func TestPublishAttachmentVariants(t *testing.T) {
	svc := NewService(newStoreStub())
	ctx := context.Background()

	valid := []*model.Attachment{
		{Kind: enums.AttachmentKindPoll, Poll: &model.PollAttachment{Question: "best season for haiku?", Options: []string{"spring", "autumn"}}},
		{Kind: enums.AttachmentKindQuote, Quote: &model.QuoteAttachment{Text: "the old pond", Source: "Basho"}},
		{Kind: enums.AttachmentKindLink, Link: &model.LinkAttachment{URL: "https://example.com/reading"}},
	}
	for _, att := range valid {
		if _, err := svc.Publish(ctx, 1, PublishInput{Body: "post", Attachment: att}); err != nil {
			t.Fatalf("valid %s attachment rejected: %v", att.Kind, err)
		}
	}

	invalid := []struct {
		name string
		att  *model.Attachment
	}{
		{"kind/payload mismatch", &model.Attachment{Kind: enums.AttachmentKindPoll, Quote: &model.QuoteAttachment{Text: "x"}}},
		{"two payloads", &model.Attachment{Kind: enums.AttachmentKindPoll, Poll: &model.PollAttachment{Question: "q", Options: []string{"a", "b"}}, Link: &model.LinkAttachment{URL: "https://x.com"}}},
		{"no payload", &model.Attachment{Kind: enums.AttachmentKindQuote}},
		{"one poll option", &model.Attachment{Kind: enums.AttachmentKindPoll, Poll: &model.PollAttachment{Question: "q", Options: []string{"only"}}}},
		{"five poll options", &model.Attachment{Kind: enums.AttachmentKindPoll, Poll: &model.PollAttachment{Question: "q", Options: []string{"a", "b", "c", "d", "e"}}}},
		{"blank poll option", &model.Attachment{Kind: enums.AttachmentKindPoll, Poll: &model.PollAttachment{Question: "q", Options: []string{"a", "  "}}}},
		{"empty quote", &model.Attachment{Kind: enums.AttachmentKindQuote, Quote: &model.QuoteAttachment{Text: "  "}}},
		{"ftp link", &model.Attachment{Kind: enums.AttachmentKindLink, Link: &model.LinkAttachment{URL: "ftp://example.com"}}},
		{"relative link", &model.Attachment{Kind: enums.AttachmentKindLink, Link: &model.LinkAttachment{URL: "/local/path"}}},
	}
	for _, tc := range invalid {
		if _, err := svc.Publish(ctx, 1, PublishInput{Body: "post", Attachment: tc.att}); !errors.Is(err, ErrBadAttachment) {
			t.Fatalf("%s: expected bad attachment, got err=%v", tc.name, err)
		}
	}
}

func TestPublishValidation(t *testing.T) {
	svc := NewService(newStoreStub())
	ctx := context.Background()

	if _, err := svc.Publish(ctx, 0, PublishInput{Body: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing author should fail, got err=%v", err)
	}
	if _, err := svc.Publish(ctx, 1, PublishInput{Body: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank body should fail, got err=%v", err)
	}

	if _, err := svc.Get(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown post should not be found, got err=%v", err)
	}
}
