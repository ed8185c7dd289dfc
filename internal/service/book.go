package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/genre"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// BookService manages books and chapters, keeping the search index in
// step with catalog changes.
type BookService struct {
	store  *sqlite.Store
	search *search.Index
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *sqlite.Store, searchIndex *search.Index, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		search: searchIndex,
		logger: logger,
	}
}

// CreateBookInput carries the fields for a new book.
type CreateBookInput struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Kind        domain.BookKind  `json:"kind" validate:"required"`
	Genre       string           `json:"genre" validate:"max=50"`
	AgeRating   domain.AgeRating `json:"age_rating"`
	Description string           `json:"description" validate:"max=5000"`
}

// CreateBook publishes a new book for the actor.
// Readers cannot publish; the actor must be an author or moderator.
func (s *BookService) CreateBook(ctx context.Context, actorID string, in CreateBookInput) (*domain.Book, error) {
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if !actor.CanPublish() {
		return nil, apperrors.Forbidden("only authors can publish books")
	}
	if !in.Kind.Valid() {
		return nil, apperrors.Validationf("invalid book kind %q", in.Kind)
	}
	if in.AgeRating == "" {
		in.AgeRating = domain.AgeRatingAll
	}
	if !in.AgeRating.Valid() {
		return nil, apperrors.Validationf("invalid age rating %q", in.AgeRating)
	}

	now := time.Now()
	book := &domain.Book{
		ID:          id.MustGenerate(id.PrefixBook),
		AuthorID:    actor.ID,
		Title:       strings.TrimSpace(in.Title),
		Kind:        in.Kind,
		Genre:       genre.Canonicalize(in.Genre),
		AgeRating:   in.AgeRating,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if book.Title == "" {
		return nil, apperrors.Validation("title must not be empty")
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.indexBook(ctx, book, actor.DisplayName)

	s.logger.Info("book created", "book_id", book.ID, "author_id", actor.ID, "title", book.Title)
	return book, nil
}

// UpdateBookInput carries the editable fields of a book. Nil pointers
// leave the field unchanged.
type UpdateBookInput struct {
	Title       *string           `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Kind        *domain.BookKind  `json:"kind,omitempty"`
	Genre       *string           `json:"genre,omitempty" validate:"omitempty,max=50"`
	AgeRating   *domain.AgeRating `json:"age_rating,omitempty"`
	Description *string           `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// UpdateBook edits a book's metadata. Only the book author or a
// moderator may edit.
func (s *BookService) UpdateBook(ctx context.Context, actorID, bookID string, in UpdateBookInput) (*domain.Book, error) {
	book, err := s.requireBookOwner(ctx, actorID, bookID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.Validation("title must not be empty")
		}
		book.Title = title
	}
	if in.Kind != nil {
		if !in.Kind.Valid() {
			return nil, apperrors.Validationf("invalid book kind %q", *in.Kind)
		}
		book.Kind = *in.Kind
	}
	if in.Genre != nil {
		book.Genre = genre.Canonicalize(*in.Genre)
	}
	if in.AgeRating != nil {
		if !in.AgeRating.Valid() {
			return nil, apperrors.Validationf("invalid age rating %q", *in.AgeRating)
		}
		book.AgeRating = *in.AgeRating
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, notFound(err, "book")
	}

	s.reindexBook(ctx, book)
	return book, nil
}

// DeleteBook removes a book and everything hanging off it: chapters,
// comments, likes, reviews, events, and library entries.
func (s *BookService) DeleteBook(ctx context.Context, actorID, bookID string) error {
	if _, err := s.requireBookOwner(ctx, actorID, bookID); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return notFound(err, "book")
	}

	if err := s.search.DeleteBook(bookID); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
	}

	s.logger.Info("book deleted", "book_id", bookID, "actor_id", actorID)
	return nil
}

// GetBook retrieves a book without touching its counters.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return book, nil
}

// OpenBook retrieves a book for display, bumping its view counter and
// logging a view event. Book pages count every load; only chapter
// views are session-deduplicated.
func (s *BookService) OpenBook(ctx context.Context, bookID, actorID string) (*domain.Book, error) {
	if _, err := s.store.IncrementBookViews(ctx, bookID); err != nil {
		return nil, notFound(err, "book")
	}

	event := &domain.EngagementEvent{
		ID:          id.MustGenerate(id.PrefixEvent),
		SubjectID:   bookID,
		SubjectKind: domain.SubjectBook,
		BookID:      bookID,
		Kind:        domain.EventView,
		ActorID:     actorID,
		OccurredAt:  time.Now(),
	}
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return book, nil
}

// ListByAuthor returns all of an author's books, newest first.
func (s *BookService) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Book, error) {
	return s.store.ListBooksByAuthor(ctx, authorID)
}

// Browse searches or lists the catalog. An empty query browses
// alphabetically by title instead of by relevance.
func (s *BookService) Browse(ctx context.Context, params search.BrowseParams) (*search.BrowseResult, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Query == "" && params.SortBy == "" {
		params.SortBy = "title"
		params.SortOrder = "asc"
	}
	return s.search.Browse(ctx, params)
}

// AddChapter appends a chapter to the end of a book.
func (s *BookService) AddChapter(ctx context.Context, actorID, bookID, title, content string) (*domain.Chapter, error) {
	if _, err := s.requireBookOwner(ctx, actorID, bookID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation("chapter title must not be empty")
	}

	chapter := &domain.Chapter{
		ID:        id.MustGenerate(id.PrefixChapter),
		BookID:    bookID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateChapter(ctx, chapter); err != nil {
		return nil, notFound(err, "book")
	}

	s.logger.Info("chapter added", "chapter_id", chapter.ID, "book_id", bookID, "position", chapter.Order)
	return chapter, nil
}

// EditChapter updates a chapter's title and content.
func (s *BookService) EditChapter(ctx context.Context, actorID, chapterID, title, content string) (*domain.Chapter, error) {
	chapter, err := s.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, notFound(err, "chapter")
	}
	if _, err := s.requireBookOwner(ctx, actorID, chapter.BookID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation("chapter title must not be empty")
	}

	chapter.Title = title
	chapter.Content = content
	if err := s.store.UpdateChapter(ctx, chapter); err != nil {
		return nil, notFound(err, "chapter")
	}
	return chapter, nil
}

// DeleteChapter removes a chapter; the remaining chapters are
// resequenced to a gapless 1..n.
func (s *BookService) DeleteChapter(ctx context.Context, actorID, chapterID string) error {
	chapter, err := s.store.GetChapter(ctx, chapterID)
	if err != nil {
		return notFound(err, "chapter")
	}
	if _, err := s.requireBookOwner(ctx, actorID, chapter.BookID); err != nil {
		return err
	}

	if err := s.store.DeleteChapter(ctx, chapterID); err != nil {
		return notFound(err, "chapter")
	}
	return nil
}

// GetChapter retrieves a chapter.
func (s *BookService) GetChapter(ctx context.Context, chapterID string) (*domain.Chapter, error) {
	chapter, err := s.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, notFound(err, "chapter")
	}
	return chapter, nil
}

// ListChapters returns a book's chapters in reading order.
func (s *BookService) ListChapters(ctx context.Context, bookID string) ([]*domain.Chapter, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, notFound(err, "book")
	}
	return s.store.ListChaptersForBook(ctx, bookID)
}

// ReindexAll rebuilds the search index from the store. Used at startup
// and after a mapping version bump.
func (s *BookService) ReindexAll(ctx context.Context) error {
	const pageSize = 500

	var docs []*search.BookDocument
	authors := make(map[string]string)
	for offset := 0; ; offset += pageSize {
		books, err := s.store.ListBooks(ctx, pageSize, offset)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			break
		}
		for _, book := range books {
			name, ok := authors[book.AuthorID]
			if !ok {
				author, err := s.store.GetUser(ctx, book.AuthorID)
				if err == nil {
					name = author.DisplayName
				}
				authors[book.AuthorID] = name
			}
			docs = append(docs, search.NewBookDocument(book, name))
		}
		if len(books) < pageSize {
			break
		}
	}

	if err := s.search.IndexBooks(docs); err != nil {
		return err
	}
	s.logger.Info("search index rebuilt", "books", len(docs))
	return nil
}

// requireBookOwner loads the book and checks that the actor is its
// author or a moderator.
func (s *BookService) requireBookOwner(ctx context.Context, actorID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, notFound(err, "book")
	}
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if actor.ID != book.AuthorID && !actor.IsModerator() {
		return nil, apperrors.Forbidden("not the book author")
	}
	return book, nil
}

// indexBook adds a book to the search index. Index failures are logged
// rather than failing the write; the index rebuilds from the store.
func (s *BookService) indexBook(ctx context.Context, book *domain.Book, authorName string) {
	if authorName == "" {
		if author, err := s.store.GetUser(ctx, book.AuthorID); err == nil {
			authorName = author.DisplayName
		}
	}
	if err := s.search.IndexBook(search.NewBookDocument(book, authorName)); err != nil {
		s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
	}
}

// reindexBook refreshes a book's search document after an edit.
func (s *BookService) reindexBook(ctx context.Context, book *domain.Book) {
	s.indexBook(ctx, book, "")
}
