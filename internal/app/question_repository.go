package app

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vocab-quiz-service/internal/domain"
)

// DocumentStore persists the whole local question document as one blob.
// Load returns nil data and no error when nothing has been saved yet.
type DocumentStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// QuestionStore is the remote per-record question backend.
type QuestionStore interface {
	ListQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

// DefaultSource supplies the bundled questions. Implementations must return copies.
type DefaultSource interface {
	Defaults(category domain.Category) []domain.Question
}

const documentVersion = 1

// document is the local persisted state. Once a category has an entry in
// Questions it is the source of truth for that category's local view.
type document struct {
	Version    int                                   `json:"version"`
	Questions  map[domain.Category][]domain.Question `json:"questions"`
	Suppressed map[domain.Category][]int             `json:"suppressed,omitempty"` // deleted bundled positions
	Removed    map[domain.Category][]string          `json:"removed,omitempty"`    // deleted remote ids
}

func newDocument() *document {
	return &document{
		Version:    documentVersion,
		Questions:  make(map[domain.Category][]domain.Question),
		Suppressed: make(map[domain.Category][]int),
		Removed:    make(map[domain.Category][]string),
	}
}

// QuestionRepository merges bundled, locally stored and remote questions per
// category and applies edits to the merged view.
type QuestionRepository struct {
	defaults DefaultSource
	local    DocumentStore
	remote   QuestionStore
	logger   *zap.Logger
	newID    func() string

	mu sync.Mutex
}

// NewQuestionRepository wires the sources. remote may be nil.
func NewQuestionRepository(defaults DefaultSource, local DocumentStore, remote QuestionStore, logger *zap.Logger) *QuestionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionRepository{
		defaults: defaults,
		local:    local,
		remote:   remote,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Load returns the merged question list for category. Storage problems are
// logged and answered with the best data available.
func (r *QuestionRepository) Load(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	if !category.Valid() {
		return nil, domain.ErrUnknownCategory
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.readDocument(ctx)
	questions, changed := r.collectionLocked(ctx, doc, category)
	if changed {
		doc.Questions[category] = questions
		if err := r.writeDocument(ctx, doc); err != nil {
			r.logger.Warn("cache merged questions locally", zap.String("category", string(category)), zap.Error(err))
		}
	}
	return cloneQuestions(questions), nil
}

// Add validates and appends a question.
func (r *QuestionRepository) Add(ctx context.Context, category domain.Category, q domain.Question) (domain.Question, error) {
	if !category.Valid() {
		return domain.Question{}, domain.ErrUnknownCategory
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.readDocument(ctx)
	questions, _ := r.collectionLocked(ctx, doc, category)

	stored := r.storeCustom(ctx, category, q)
	doc.Questions[category] = append(questions, stored)
	if err := r.writeDocument(ctx, doc); err != nil {
		return domain.Question{}, err
	}
	return stored.Clone(), nil
}

// Update replaces the question at index.
func (r *QuestionRepository) Update(ctx context.Context, category domain.Category, index int, q domain.Question) (domain.Question, error) {
	if !category.Valid() {
		return domain.Question{}, domain.ErrUnknownCategory
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.readDocument(ctx)
	questions, _ := r.collectionLocked(ctx, doc, category)
	if index < 0 || index >= len(questions) {
		return domain.Question{}, domain.ErrIndexOutOfRange
	}

	existing := questions[index]
	var updated domain.Question
	switch {
	case q.SameContent(existing):
		updated = existing
	case existing.Origin == domain.OriginBundled:
		// The edited copy replaces the bundled question for good.
		doc.Suppressed[category] = appendUnique(doc.Suppressed[category], existing.BundledIndex)
		q.ID = ""
		updated = r.storeCustom(ctx, category, q)
	default:
		updated = customQuestion(category, q)
		updated.ID = existing.ID
		if r.remote != nil {
			if err := r.remote.UpdateQuestion(ctx, updated); err != nil {
				r.logger.Warn("update remote question", zap.String("id", updated.ID), zap.Error(remoteErr(err)))
			}
		}
	}

	questions[index] = updated
	doc.Questions[category] = questions
	if err := r.writeDocument(ctx, doc); err != nil {
		return domain.Question{}, err
	}
	return updated.Clone(), nil
}

// Delete removes the question at index. A bundled question is only
// suppressed; the bundled list itself never changes. Without force, deleting
// a bundled question fails with ErrDefaultProtected.
func (r *QuestionRepository) Delete(ctx context.Context, category domain.Category, index int, force bool) (domain.Question, error) {
	if !category.Valid() {
		return domain.Question{}, domain.ErrUnknownCategory
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.readDocument(ctx)
	questions, _ := r.collectionLocked(ctx, doc, category)
	if index < 0 || index >= len(questions) {
		return domain.Question{}, domain.ErrIndexOutOfRange
	}

	removed := questions[index]
	if removed.Origin == domain.OriginBundled && !force {
		return domain.Question{}, domain.ErrDefaultProtected
	}
	if removed.Origin == domain.OriginBundled {
		doc.Suppressed[category] = appendUnique(doc.Suppressed[category], removed.BundledIndex)
	} else if removed.ID != "" {
		doc.Removed[category] = appendUnique(doc.Removed[category], removed.ID)
		if r.remote != nil {
			if err := r.remote.DeleteQuestion(ctx, removed.ID); err != nil {
				r.logger.Warn("delete remote question", zap.String("id", removed.ID), zap.Error(remoteErr(err)))
			}
		}
	}

	doc.Questions[category] = slices.Delete(questions, index, index+1)
	if err := r.writeDocument(ctx, doc); err != nil {
		return domain.Question{}, err
	}
	return removed, nil
}

// IsDefault reports whether the question at index is an unmodified bundled question.
func (r *QuestionRepository) IsDefault(ctx context.Context, category domain.Category, index int) (bool, error) {
	questions, err := r.Load(ctx, category)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(questions) {
		return false, nil
	}
	return questions[index].Origin == domain.OriginBundled, nil
}

// QuestionsByID indexes the merged view of category together with its whole
// bundled list, so ids of deleted bundled questions still resolve.
func (r *QuestionRepository) QuestionsByID(ctx context.Context, category domain.Category) (map[string]domain.Question, error) {
	questions, err := r.Load(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Question, len(questions))
	for _, q := range r.defaults.Defaults(category) {
		out[q.ID] = q
	}
	for _, q := range questions {
		if q.ID != "" {
			out[q.ID] = q
		}
	}
	return out, nil
}

// ImportBulk appends questions whose trimmed text is not already present.
// Every question is validated before anything is stored.
func (r *QuestionRepository) ImportBulk(ctx context.Context, category domain.Category, incoming []domain.Question) (domain.ImportReport, error) {
	if !category.Valid() {
		return domain.ImportReport{}, domain.ErrUnknownCategory
	}
	for i, q := range incoming {
		if err := q.Validate(); err != nil {
			return domain.ImportReport{}, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.readDocument(ctx)
	questions, _ := r.collectionLocked(ctx, doc, category)

	seen := make(map[string]struct{}, len(questions)+len(incoming))
	for _, q := range questions {
		seen[strings.TrimSpace(q.Text)] = struct{}{}
	}

	var report domain.ImportReport
	for _, q := range incoming {
		key := strings.TrimSpace(q.Text)
		if _, dup := seen[key]; dup {
			report.SkippedDuplicate++
			continue
		}
		seen[key] = struct{}{}
		questions = append(questions, r.storeCustom(ctx, category, q))
		report.Imported++
	}

	if report.Imported == 0 {
		return report, nil
	}
	doc.Questions[category] = questions
	if err := r.writeDocument(ctx, doc); err != nil {
		return domain.ImportReport{}, err
	}
	return report, nil
}

// Reset drops the local document so the next load starts from bundled and remote data.
func (r *QuestionRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.local.Delete(ctx); err != nil {
		return fmt.Errorf("reset local questions: %w", err)
	}
	return nil
}

// collectionLocked builds the merged view and reports whether remote data added to it.
func (r *QuestionRepository) collectionLocked(ctx context.Context, doc *document, category domain.Category) ([]domain.Question, bool) {
	questions, ok := doc.Questions[category]
	if ok {
		questions = cloneQuestions(questions)
	} else {
		questions = r.visibleDefaults(doc, category)
	}

	if r.remote == nil {
		return questions, false
	}
	remote, err := r.remote.ListQuestions(ctx, category)
	if err != nil {
		r.logger.Warn("load remote questions, using local copy",
			zap.String("category", string(category)), zap.Error(remoteErr(err)))
		return questions, false
	}

	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if q.ID != "" {
			known[q.ID] = struct{}{}
		}
	}
	removed := doc.Removed[category]
	changed := false
	for _, q := range remote {
		if _, dup := known[q.ID]; dup || slices.Contains(removed, q.ID) {
			continue
		}
		q.Category = category
		q.Origin = domain.OriginCustom
		q.BundledIndex = 0
		questions = append(questions, q)
		known[q.ID] = struct{}{}
		changed = true
	}
	return questions, changed
}

func (r *QuestionRepository) visibleDefaults(doc *document, category domain.Category) []domain.Question {
	suppressed := doc.Suppressed[category]
	all := r.defaults.Defaults(category)
	out := make([]domain.Question, 0, len(all))
	for _, q := range all {
		if !slices.Contains(suppressed, q.BundledIndex) {
			out = append(out, q)
		}
	}
	return out
}

// storeCustom assigns an id and pushes q to the remote store when one is configured.
func (r *QuestionRepository) storeCustom(ctx context.Context, category domain.Category, q domain.Question) domain.Question {
	q = customQuestion(category, q)
	if q.ID == "" {
		q.ID = r.newID()
	}
	if r.remote == nil {
		return q
	}
	stored, err := r.remote.CreateQuestion(ctx, q)
	if err != nil {
		r.logger.Warn("create remote question, keeping local copy", zap.String("id", q.ID), zap.Error(remoteErr(err)))
		return q
	}
	return customQuestion(category, stored)
}

func (r *QuestionRepository) readDocument(ctx context.Context) *document {
	data, err := r.local.Load(ctx)
	if err != nil {
		r.logger.Warn("read local questions, starting empty", zap.Error(err))
		return newDocument()
	}
	if len(data) == 0 {
		return newDocument()
	}

	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		r.logger.Warn("discarding local questions", zap.Error(fmt.Errorf("%w: %v", domain.ErrStorageCorrupt, err)))
		return newDocument()
	}
	if doc.Questions == nil {
		doc.Questions = make(map[domain.Category][]domain.Question)
	}
	if doc.Suppressed == nil {
		doc.Suppressed = make(map[domain.Category][]int)
	}
	if doc.Removed == nil {
		doc.Removed = make(map[domain.Category][]string)
	}
	return doc
}

func (r *QuestionRepository) writeDocument(ctx context.Context, doc *document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if err := r.local.Save(ctx, data); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	return nil
}

func customQuestion(category domain.Category, q domain.Question) domain.Question {
	q = q.Clone()
	q.Category = category
	q.Origin = domain.OriginCustom
	q.BundledIndex = 0
	return q
}

func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}

func appendUnique[T comparable](list []T, v T) []T {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func remoteErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
}
