package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/response"
)

// InitialRowCount is the number of empty rows a new session starts with
const InitialRowCount = 3

// Observer is notified with the persisted part of the session state after
// every successful mutation. Implementations must not block.
type Observer interface {
	Observe(data domain.ProfileData)
}

// Publisher receives session events
type Publisher interface {
	Publish(event Event)
}

// Config configures a new Session
type Config struct {
	ProfileID   string
	Clock       clockwork.Clock
	Observer    Observer
	Publisher   Publisher
	InitialRows int
}

// FieldView is a row together with its transient lock state and position
type FieldView struct {
	domain.FieldSpec
	DistributionMode domain.DistributionMode `json:"distributionMode"`
	Position         int                     `json:"position"`
}

// View is the complete client-facing session state
type View struct {
	ID             string               `json:"id"`
	ProfileID      string               `json:"profileId,omitempty"`
	Fields         []FieldView          `json:"fields"`
	Options        domain.ExportOptions `json:"options"`
	Sheets         []domain.ExportSheet `json:"sheets"`
	FieldNames     []string             `json:"fieldNames"`
	UsedUseCaseIDs []string             `json:"usedUseCaseIds"`
}

// Session is one user's wizard. All mutations are serialised by its mutex
// and each is a single atomic transition.
type Session struct {
	id        string
	profileID string

	mu          sync.Mutex
	fields      *Collection
	modes       map[string]*ModeLock
	sheets      *SheetSet
	options     domain.ExportOptions
	clock       clockwork.Clock
	lastTouched time.Time

	observer  Observer
	publisher Publisher
}

// NewSession creates a session with empty rows and default options
func NewSession(id string, cfg Config) *Session {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	rows := cfg.InitialRows
	if rows <= 0 {
		rows = InitialRowCount
	}

	s := &Session{
		id:          id,
		profileID:   cfg.ProfileID,
		fields:      NewCollection(),
		modes:       make(map[string]*ModeLock),
		sheets:      NewSheetSet(),
		options:     domain.DefaultExportOptions(),
		clock:       clock,
		lastTouched: clock.Now(),
		observer:    cfg.Observer,
		publisher:   cfg.Publisher,
	}
	for i := 0; i < rows; i++ {
		s.fields.Add()
	}
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// ProfileID returns the bound profile id or ""
func (s *Session) ProfileID() string {
	return s.profileID
}

// LastTouched returns the time of the last access
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouched
}

// SetObserver replaces the state observer
func (s *Session) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Hydrate applies a loaded profile payload. It never notifies the observer.
// rows replace the collection when present, an explicit empty list included;
// rowCount, format and lineEnding are taken only when set.
func (s *Session) Hydrate(data domain.ProfileData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data.Rows != nil {
		s.fields.Replace(data.Rows)
		s.modes = make(map[string]*ModeLock)
	}
	if data.RowCount != 0 {
		s.options.RowCount = data.RowCount
		if s.options.RowCount < 0 {
			s.options.RowCount = 0
		}
	}
	if data.Format != "" {
		s.options.Format = data.Format
	}
	if data.LineEnding != "" {
		s.options.LineEnding = data.LineEnding
	}
	s.touch()
}

// Snapshot returns the persisted part of the state
func (s *Session) Snapshot() domain.ProfileData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// View returns the complete session state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.view()
}

// Field returns one row
func (s *Session) Field(id string) (FieldView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.fieldView(id)
}

// AddField appends an empty row
func (s *Session) AddField() FieldView {
	s.mu.Lock()
	row := s.fields.Add()
	s.changed()
	view, _ := s.fieldView(row.ID)
	s.mu.Unlock()

	s.emit(EventFieldAdded, row.ID, view)
	return view
}

// RemoveField deletes a row
func (s *Session) RemoveField(id string) error {
	s.mu.Lock()
	if !s.fields.Remove(id) {
		s.mu.Unlock()
		return fieldNotFound(id)
	}
	delete(s.modes, id)
	s.changed()
	s.mu.Unlock()

	s.emit(EventFieldRemoved, id, nil)
	return nil
}

// MoveField relocates a row. newIndex is clamped into range.
func (s *Session) MoveField(id string, newIndex int) ([]FieldView, error) {
	s.mu.Lock()
	if !s.fields.Move(id, newIndex) {
		s.mu.Unlock()
		return nil, fieldNotFound(id)
	}
	s.changed()
	views := s.fieldViews()
	s.mu.Unlock()

	s.emit(EventFieldMoved, id, views)
	return views, nil
}

// PatchField merges a partial update. A distributionMode key is routed to the
// mode lock; if the lock rejects it nothing is changed.
func (s *Session) PatchField(ctx context.Context, id string, patch domain.FieldPatch) (FieldView, error) {
	s.mu.Lock()
	if _, ok := s.fields.Get(id); !ok {
		s.mu.Unlock()
		return FieldView{}, fieldNotFound(id)
	}
	if patch.DistributionMode != nil {
		if err := s.modeFor(id).Enter(ctx, *patch.DistributionMode); err != nil {
			s.mu.Unlock()
			return FieldView{}, err
		}
	}
	s.fields.Patch(id, patch)
	s.changed()
	view, _ := s.fieldView(id)
	s.mu.Unlock()

	s.emit(EventFieldUpdated, id, view)
	return view, nil
}

// Availability returns which modes the field could enter now
func (s *Session) Availability(id string) (domain.DistributionMode, map[domain.DistributionMode]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fields.Get(id); !ok {
		return "", nil, fieldNotFound(id)
	}
	lock := s.modeFor(id)
	return lock.Current(), lock.Availability(), nil
}

// EnterMode locks the field to mode
func (s *Session) EnterMode(ctx context.Context, id string, mode domain.DistributionMode) (FieldView, error) {
	s.mu.Lock()
	if _, ok := s.fields.Get(id); !ok {
		s.mu.Unlock()
		return FieldView{}, fieldNotFound(id)
	}
	if err := s.modeFor(id).Enter(ctx, mode); err != nil {
		s.mu.Unlock()
		return FieldView{}, err
	}
	s.touch()
	view, _ := s.fieldView(id)
	s.mu.Unlock()

	s.emit(EventModeChanged, id, view)
	return view, nil
}

// ResetMode unlocks the field
func (s *Session) ResetMode(ctx context.Context, id string) (FieldView, error) {
	return s.EnterMode(ctx, id, domain.ModeNone)
}

// SetOptions merges export option changes
func (s *Session) SetOptions(patch domain.ExportOptionsPatch) domain.ExportOptions {
	s.mu.Lock()
	patch.Apply(&s.options)
	s.changed()
	opts := s.options
	s.mu.Unlock()

	s.emit(EventOptionsUpdated, "", opts)
	return opts
}

// Options returns the export options
func (s *Session) Options() domain.ExportOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// FieldNames returns the unique trimmed non-empty names in order
func (s *Session) FieldNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.Names()
}

// ExportInput returns consistent copies of everything the compiler reads
func (s *Session) ExportInput() ([]domain.FieldSpec, domain.ExportOptions, []domain.ExportSheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.fields.Fields(), s.options, s.sheets.Sheets()
}

// Sheets returns the sheet list
func (s *Session) Sheets() []domain.ExportSheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheets.Sheets()
}

// AddSheet appends an empty sheet
func (s *Session) AddSheet() domain.ExportSheet {
	s.mu.Lock()
	sheet := s.sheets.AddSheet()
	s.touch()
	all := s.sheets.Sheets()
	s.mu.Unlock()

	s.emit(EventSheetsUpdated, "", all)
	return sheet
}

// RemoveSheet deletes a sheet. The locked sheet is left untouched.
func (s *Session) RemoveSheet(id string) ([]domain.ExportSheet, error) {
	return s.sheetOp(id, func(set *SheetSet) bool { return set.RemoveSheet(id) })
}

// RenameSheet renames a sheet. The locked sheet is left untouched.
func (s *Session) RenameSheet(id, name string) ([]domain.ExportSheet, error) {
	return s.sheetOp(id, func(set *SheetSet) bool { return set.Rename(id, name) })
}

// ToggleSheetField flips membership of fieldName. The locked sheet is left untouched.
func (s *Session) ToggleSheetField(id, fieldName string) ([]domain.ExportSheet, error) {
	return s.sheetOp(id, func(set *SheetSet) bool { return set.ToggleField(id, fieldName) })
}

// SelectAllSheetFields sets membership to every known field name
func (s *Session) SelectAllSheetFields(id string) ([]domain.ExportSheet, error) {
	return s.sheetOp(id, func(set *SheetSet) bool { return set.SelectAll(id, s.fields.Names()) })
}

// SelectNoSheetFields clears membership
func (s *Session) SelectNoSheetFields(id string) ([]domain.ExportSheet, error) {
	return s.sheetOp(id, func(set *SheetSet) bool { return set.SelectNone(id) })
}

// sheetOp runs op under the lock. Unknown sheets are NOT_FOUND; a rejected
// op on the locked sheet returns the unchanged list.
func (s *Session) sheetOp(id string, op func(set *SheetSet) bool) ([]domain.ExportSheet, error) {
	s.mu.Lock()
	if _, ok := s.sheets.Get(id); !ok {
		s.mu.Unlock()
		return nil, response.NewNotFoundError("Sheet not found", id)
	}
	changed := op(s.sheets)
	s.touch()
	all := s.sheets.Sheets()
	s.mu.Unlock()

	if changed {
		s.emit(EventSheetsUpdated, "", all)
	}
	return all, nil
}

// Emit publishes an event on behalf of the session
func (s *Session) Emit(eventType string, payload interface{}) {
	s.emit(eventType, "", payload)
}

// Close notifies subscribers that the session is gone
func (s *Session) Close() {
	s.emit(EventSessionClosed, "", nil)
}

// modeFor returns the field's lock, creating it on first use. Caller holds mu.
func (s *Session) modeFor(id string) *ModeLock {
	lock, ok := s.modes[id]
	if !ok {
		lock = NewModeLock()
		s.modes[id] = lock
	}
	return lock
}

// mode returns the field's current mode without creating a lock. Caller holds mu.
func (s *Session) mode(id string) domain.DistributionMode {
	if lock, ok := s.modes[id]; ok {
		return lock.Current()
	}
	return domain.ModeNone
}

func (s *Session) fieldView(id string) (FieldView, error) {
	row, ok := s.fields.Get(id)
	if !ok {
		return FieldView{}, fieldNotFound(id)
	}
	return FieldView{
		FieldSpec:        row,
		DistributionMode: s.mode(id),
		Position:         s.fields.IndexOf(id),
	}, nil
}

func (s *Session) fieldViews() []FieldView {
	rows := s.fields.Fields()
	views := make([]FieldView, len(rows))
	for i, row := range rows {
		views[i] = FieldView{FieldSpec: row, DistributionMode: s.mode(row.ID), Position: i}
	}
	return views
}

func (s *Session) view() View {
	return View{
		ID:             s.id,
		ProfileID:      s.profileID,
		Fields:         s.fieldViews(),
		Options:        s.options,
		Sheets:         s.sheets.Sheets(),
		FieldNames:     s.fields.Names(),
		UsedUseCaseIDs: catalog.InferUsedUseCases(s.fields.Types()),
	}
}

func (s *Session) snapshot() domain.ProfileData {
	return domain.ProfileData{
		Rows:       s.fields.Fields(),
		RowCount:   s.options.RowCount,
		Format:     s.options.Format,
		LineEnding: s.options.LineEnding,
	}
}

// changed records a mutation of persisted state. Caller holds mu.
func (s *Session) changed() {
	s.touch()
	if s.observer != nil {
		s.observer.Observe(s.snapshot())
	}
}

func (s *Session) touch() {
	s.lastTouched = s.clock.Now()
}

func (s *Session) emit(eventType, fieldID string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(Event{
		Type:      eventType,
		SessionID: s.id,
		FieldID:   fieldID,
		Payload:   payload,
		At:        s.clock.Now(),
	})
}

func fieldNotFound(id string) error {
	return response.NewNotFoundError("Field not found", id)
}
