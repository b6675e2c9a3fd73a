package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/pkg/coerce"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
	"github.com/noah-isme/edu-agent-api/pkg/storage"
)

// RecordPointer constrains P to *T implementing models.Record.
type RecordPointer[T any] interface {
	*T
	models.Record
}

// CollectionRepository gives typed access to one collection of a RecordStore.
type CollectionRepository[T any, P RecordPointer[T]] struct {
	store      *RecordStore
	collection models.Collection
}

// NewCollectionRepository binds a typed repository to a collection.
func NewCollectionRepository[T any, P RecordPointer[T]](store *RecordStore, collection models.Collection) *CollectionRepository[T, P] {
	return &CollectionRepository[T, P]{store: store, collection: collection}
}

// Collection reports the bound collection.
func (r *CollectionRepository[T, P]) Collection() models.Collection {
	return r.collection
}

// NextIDFor applies the gap-filling allocation rule: one more than the largest id, or 1.
func NextIDFor[T any, P RecordPointer[T]](records []T) int {
	maxID := 0
	for i := range records {
		if id := P(&records[i]).RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Load returns the persisted records. A missing or unparsable resource yields an empty slice.
// Individual records that cannot be read are skipped.
func (r *CollectionRepository[T, P]) Load(ctx context.Context) ([]T, error) {
	start := time.Now()
	records, _, err := r.load(ctx)
	r.store.observe(r.collection, "load", start, err)
	return records, err
}

// Save overwrites the whole collection.
func (r *CollectionRepository[T, P]) Save(ctx context.Context, records []T) error {
	lock := r.store.lockFor(r.collection)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	err := r.save(ctx, records)
	r.store.observe(r.collection, "save", start, err)
	return err
}

// NextID reports the id the next insert would receive.
func (r *CollectionRepository[T, P]) NextID(ctx context.Context) (int, error) {
	records, err := r.Load(ctx)
	if err != nil {
		return 0, err
	}
	return NextIDFor[T, P](records), nil
}

// Insert assigns an id and creation timestamp to record, appends it and persists the collection.
func (r *CollectionRepository[T, P]) Insert(ctx context.Context, record T) (T, error) {
	return r.InsertWith(ctx, func([]T) (T, error) { return record, nil })
}

// InsertWith builds the new record from the current contents while holding the collection lock.
func (r *CollectionRepository[T, P]) InsertWith(ctx context.Context, build func(existing []T) (T, error)) (T, error) {
	lock := r.store.lockFor(r.collection)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	record, err := r.insertLocked(ctx, build)
	r.store.observe(r.collection, "insert", start, err)
	if err != nil {
		var zero T
		return zero, err
	}
	r.store.notify(ctx, r.collection, models.RecordCreated, P(&record).RecordID())
	return record, nil
}

func (r *CollectionRepository[T, P]) insertLocked(ctx context.Context, build func([]T) (T, error)) (T, error) {
	var zero T
	records, err := r.loadForWrite(ctx)
	if err != nil {
		return zero, err
	}
	record, err := build(records)
	if err != nil {
		return zero, err
	}

	ptr := P(&record)
	ptr.SetRecordID(NextIDFor[T, P](records))
	ptr.SetCreatedAt(models.FormatTimestamp(r.store.now()))

	records = append(records, record)
	if err := r.save(ctx, records); err != nil {
		return zero, err
	}
	return record, nil
}

// FindByID returns the first record carrying id.
func (r *CollectionRepository[T, P]) FindByID(ctx context.Context, id int) (T, bool, error) {
	var zero T
	records, err := r.Load(ctx)
	if err != nil {
		return zero, false, err
	}
	for i := range records {
		if P(&records[i]).RecordID() == id {
			return records[i], true, nil
		}
	}
	return zero, false, nil
}

// UpdateByID merges patch over the first record carrying id. Patch keys id and date_creation are
// ignored. The boolean reports whether a record matched.
func (r *CollectionRepository[T, P]) UpdateByID(ctx context.Context, id int, patch map[string]json.RawMessage) (T, bool, error) {
	lock := r.store.lockFor(r.collection)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	updated, found, err := r.updateLocked(ctx, id, patch)
	r.store.observe(r.collection, "update", start, err)
	if err == nil && found {
		r.store.notify(ctx, r.collection, models.RecordUpdated, id)
	}
	return updated, found, err
}

func (r *CollectionRepository[T, P]) updateLocked(ctx context.Context, id int, patch map[string]json.RawMessage) (T, bool, error) {
	var zero T
	records, err := r.loadForWrite(ctx)
	if err != nil {
		return zero, false, err
	}

	for i := range records {
		if P(&records[i]).RecordID() != id {
			continue
		}
		merged, err := mergeRecord(records[i], patch)
		if err != nil {
			return zero, true, err
		}
		records[i] = merged
		if err := r.save(ctx, records); err != nil {
			return zero, true, err
		}
		return merged, true, nil
	}
	return zero, false, nil
}

// DeleteByID removes the first record carrying id and reports whether one was removed.
func (r *CollectionRepository[T, P]) DeleteByID(ctx context.Context, id int) (bool, error) {
	lock := r.store.lockFor(r.collection)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	removed, err := r.deleteLocked(ctx, id)
	r.store.observe(r.collection, "delete", start, err)
	if err == nil && removed {
		r.store.notify(ctx, r.collection, models.RecordDeleted, id)
	}
	return removed, err
}

func (r *CollectionRepository[T, P]) deleteLocked(ctx context.Context, id int) (bool, error) {
	records, err := r.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	for i := range records {
		if P(&records[i]).RecordID() == id {
			records = append(records[:i], records[i+1:]...)
			return true, r.save(ctx, records)
		}
	}
	return false, nil
}

// load reads the collection. intact is false when at least one stored record could not be read;
// such a collection must not be rewritten.
func (r *CollectionRepository[T, P]) load(ctx context.Context) (records []T, intact bool, err error) {
	raw, err := r.store.backend.Read(ctx, r.collection)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []T{}, true, nil
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrStoreIO.Code, appErrors.ErrStoreIO.Status, fmt.Sprintf("failed to load %s", r.collection))
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		r.store.logger.Warn("collection unreadable, treating as empty",
			zap.String("collection", string(r.collection)),
			zap.Error(err),
		)
		return []T{}, true, nil
	}

	records = make([]T, 0, len(elements))
	intact = true
	for i, element := range elements {
		record, err := decodeRecord[T](element)
		if err != nil {
			intact = false
			r.store.logger.Warn("skipping unreadable record",
				zap.String("collection", string(r.collection)),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		records = append(records, record)
	}
	return records, intact, nil
}

func (r *CollectionRepository[T, P]) loadForWrite(ctx context.Context) ([]T, error) {
	records, intact, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if !intact {
		return nil, appErrors.Clone(appErrors.ErrStoreIO, fmt.Sprintf("%s holds unreadable records, refusing to overwrite", r.collection))
	}
	return records, nil
}

// decodeRecord decodes one stored record, coercing loosely typed fields such as "credits": "4".
func decodeRecord[T any](element json.RawMessage) (T, error) {
	var record T
	if err := json.Unmarshal(element, &record); err == nil {
		if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
			return record, errors.New("record is null")
		}
		return record, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(element, &fields); err != nil {
		var zero T
		return zero, fmt.Errorf("record is not an object: %w", err)
	}
	record = *new(T)
	rejected, err := coerce.Fields(fields, &record)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(rejected) > 0 {
		var zero T
		return zero, fmt.Errorf("fields %s cannot be converted", strings.Join(rejected, ", "))
	}
	return record, nil
}

func (r *CollectionRepository[T, P]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to encode %s", r.collection))
	}
	if err := r.store.backend.Write(ctx, r.collection, buf.Bytes()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreIO.Code, appErrors.ErrStoreIO.Status, fmt.Sprintf("failed to save %s", r.collection))
	}
	return nil
}

// immutableFields are never overwritten by a patch.
var immutableFields = map[string]struct{}{"id": {}, "date_creation": {}}

func mergeRecord[T any](current T, patch map[string]json.RawMessage) (T, error) {
	var zero T
	raw, err := json.Marshal(current)
	if err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode record")
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode record")
	}
	for key, value := range patch {
		if _, locked := immutableFields[key]; locked {
			continue
		}
		fields[key] = value
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode patch")
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "patch does not match record fields")
	}
	return out, nil
}
