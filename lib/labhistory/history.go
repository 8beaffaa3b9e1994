package labhistory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"labcompass/lib/assert"
	"labcompass/lib/chrono"
	"labcompass/lib/labreport"
	"labcompass/lib/labstore"
	"labcompass/lib/telemetry"
)

// History keeps one snapshot per key in a store and reports how each new
// page differs from the last one recorded under the same key.
type History struct {
	store labstore.Store
	time  chrono.TimeAPI
	tel   telemetry.API

	locksMutex sync.Mutex
	locks      map[string]*sync.Mutex
}

func NewHistory(store labstore.Store, time chrono.TimeAPI, tel telemetry.API) *History {
	assert.NotNil(store)
	assert.NotNil(time)
	assert.NotNil(tel)
	return &History{
		store: store,
		time:  time,
		tel:   tel,
		locks: map[string]*sync.Mutex{},
	}
}

func (h *History) lock(key string) *sync.Mutex {
	h.locksMutex.Lock()
	defer h.locksMutex.Unlock()

	mutex, ok := h.locks[key]
	if !ok {
		mutex = &sync.Mutex{}
		h.locks[key] = mutex
	}
	return mutex
}

// CreateSnapshot captures the first choice counts of labs at the current
// time.
func (h *History) CreateSnapshot(labs []labreport.LabInfo) LabSnapshot {
	entries := make([]LabSnapshotEntry, len(labs))
	for i, lab := range labs {
		entries[i] = snapshotEntry(lab)
	}
	return LabSnapshot{
		Timestamp: h.time.Now().UnixMilli(),
		Labs:      entries,
	}
}

// Load returns the snapshot stored under key, or nil if there is none. A
// store that cannot be read counts as empty.
func (h *History) Load(ctx context.Context, key string) *LabSnapshot {
	value, err := h.store.Get(ctx, key)
	if errors.Is(err, labstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		h.tel.ReportWarning("history.load", telemetry.KV{Key: "key", Value: key}, err)
		return nil
	}

	var snapshot LabSnapshot
	err = json.Unmarshal(value, &snapshot)
	if err != nil {
		h.tel.ReportWarning("history.load-decode", telemetry.KV{Key: "key", Value: key}, err)
		return nil
	}
	return &snapshot
}

// Save replaces the snapshot stored under key. Failures are reported and
// otherwise ignored.
func (h *History) Save(ctx context.Context, key string, snapshot LabSnapshot) {
	if snapshot.Labs == nil {
		snapshot.Labs = []LabSnapshotEntry{}
	}
	value, err := json.Marshal(snapshot)
	if err != nil {
		h.tel.ReportWarning("history.save-encode", telemetry.KV{Key: "key", Value: key}, err)
		return
	}
	err = h.store.Set(ctx, key, value)
	if err != nil {
		h.tel.ReportWarning("history.save", telemetry.KV{Key: "key", Value: key}, err)
	}
}

// Record loads the previous snapshot of key, replaces it with a snapshot of
// labs and returns the difference between the two. Records of the same key
// run one at a time.
func (h *History) Record(ctx context.Context, key string, labs []labreport.LabInfo) HistoryState {
	mutex := h.lock(key)
	mutex.Lock()
	defer mutex.Unlock()

	previous := h.Load(ctx, key)
	current := h.CreateSnapshot(labs)
	state := ComputeDiff(previous, current)
	h.Save(ctx, key, current)

	h.tel.ReportCount("history.changed-labs", int64(state.ChangedLabs))
	return state
}
