package expense

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/expense-tracker/internal/category"
	"github.com/zombor/expense-tracker/internal/extraction"
)

// ErrEmptyInput is returned when the submitted text is blank
var ErrEmptyInput = errors.New("empty input")

// DefaultTimeout bounds a single extractor call
const DefaultTimeout = 30 * time.Second

// IDGenerator generates unique IDs for expenses
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// Notifier is told about expenses after they are persisted
type Notifier interface {
	ExpensesCreated(ctx context.Context, expenses []*Expense) error
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Options holds the optional collaborators of a Service. Zero values are fine.
type Options struct {
	// Fallback is used when the primary extractor fails upstream
	Fallback    extraction.Extractor
	Archive     Archive
	Notifier    Notifier
	Timeout     time.Duration
	IDGenerator IDGenerator
	TimeSource  TimeSource
}

// Service turns free text into stored expenses
type Service struct {
	store       Store
	extractor   extraction.Extractor
	fallback    extraction.Extractor
	validator   *extraction.Validator
	normalizer  *category.Normalizer
	archive     Archive
	notifier    Notifier
	timeout     time.Duration
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default ID generator and time source
func NewService(store Store, extractor extraction.Extractor, normalizer *category.Normalizer) (*Service, error) {
	return NewServiceWithOptions(store, extractor, normalizer, Options{})
}

// NewServiceWithOptions creates a Service with custom collaborators
func NewServiceWithOptions(store Store, extractor extraction.Extractor, normalizer *category.Normalizer, opts Options) (*Service, error) {
	validator, err := extraction.NewValidator(normalizer, extraction.DefaultSentinels)
	if err != nil {
		return nil, fmt.Errorf("creating validator: %w", err)
	}

	s := &Service{
		store:       store,
		extractor:   extractor,
		fallback:    opts.Fallback,
		validator:   validator,
		normalizer:  normalizer,
		archive:     opts.Archive,
		notifier:    opts.Notifier,
		timeout:     opts.Timeout,
		idGenerator: opts.IDGenerator,
		timeSource:  opts.TimeSource,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.idGenerator == nil {
		s.idGenerator = &defaultIDGenerator{}
	}
	if s.timeSource == nil {
		s.timeSource = &defaultTimeSource{}
	}
	return s, nil
}

// AddFromText extracts purchases from text, validates them and stores all of
// them in one write. Nothing is stored unless at least one record is valid.
func (s *Service) AddFromText(ctx context.Context, text string) ([]*Expense, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	raw, err := s.extract(ctx, text)
	if err != nil {
		return nil, err
	}

	candidates, err := extraction.ParseResponse(raw)
	if err != nil {
		slog.Error("Failed to parse extractor response", "raw", raw, "error", err)
		s.archiveRaw(raw)
		return nil, err
	}

	extracted, err := s.validator.Validate(candidates)
	if err != nil {
		slog.Info("No valid expense in input", "text", text, "candidates", len(candidates))
		return nil, err
	}

	now := s.timeSource.Now()
	expenses := make([]*Expense, 0, len(extracted))
	for _, x := range extracted {
		createdAt := now
		if !x.Date.IsZero() {
			createdAt = x.Date
		}
		expenses = append(expenses, &Expense{
			ID:        s.idGenerator.Generate(),
			Item:      x.Item,
			Amount:    x.Amount,
			Category:  x.Category,
			CreatedAt: createdAt,
		})
	}

	if err := s.store.InsertMany(ctx, expenses); err != nil {
		return nil, fmt.Errorf("saving expenses: %w", err)
	}
	slog.Info("Saved expenses", "count", len(expenses))

	if s.notifier != nil {
		if err := s.notifier.ExpensesCreated(ctx, expenses); err != nil {
			slog.Warn("Failed to publish expenses", "count", len(expenses), "error", err)
		}
	}

	return expenses, nil
}

// extract calls the primary extractor under the configured timeout and falls
// back once on an upstream failure. Any primary error counts as upstream.
func (s *Service) extract(ctx context.Context, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.extractor.Extract(callCtx, text)
	if err == nil {
		return raw, nil
	}

	var upErr *extraction.UpstreamError
	if !errors.As(err, &upErr) {
		upErr = &extraction.UpstreamError{Provider: "extractor", Err: err}
	}
	slog.Error("Extractor call failed", "error", upErr)

	// Nobody is waiting for a fallback result once the caller has gone away
	if s.fallback == nil || ctx.Err() != nil {
		return "", upErr
	}

	slog.Warn("Using fallback extractor")
	raw, err = s.fallback.Extract(ctx, text)
	if err != nil {
		slog.Error("Fallback extractor failed", "error", err)
		return "", upErr
	}
	return raw, nil
}

func (s *Service) archiveRaw(raw string) {
	if s.archive == nil {
		return
	}
	name := fmt.Sprintf("%s_malformed.txt", s.idGenerator.Generate())
	path, err := s.archive.Save(name, []byte(raw))
	if err != nil {
		slog.Warn("Failed to archive malformed response", "error", err)
		return
	}
	slog.Info("Archived malformed response", "path", path)
}

// ListExpenses returns all expenses, newest first
func (s *Service) ListExpenses(ctx context.Context) ([]*Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes one expense
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

// DeleteAll removes every expense
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting all expenses: %w", err)
	}
	return nil
}

// Summary returns per-category totals over every stored expense
func (s *Service) Summary(ctx context.Context) ([]CategoryTotal, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(expenses, s.normalizer), nil
}

// Export writes all expenses and their summary as an XLSX workbook
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return err
	}
	if err := WriteXLSX(w, expenses, Summarize(expenses, s.normalizer)); err != nil {
		return fmt.Errorf("exporting expenses: %w", err)
	}
	return nil
}
