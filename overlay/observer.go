package overlay

import (
	"time"

	"github.com/hazyhaar/introveil/idgen"
	"github.com/hazyhaar/introveil/mutation"
)

// installObserver subscribes to the document's mutation records and runs
// exactly one reconciliation pass per debounced batch. Installed at most
// once per keeper; there is no unsubscription path, the page itself is
// the outermost scope. Callers hold k.mu.
func (k *Keeper) installObserver() {
	if k.observing || k.inert {
		return
	}
	k.observing = true

	ch := k.doc.Subscribe(k.cfg.Debounce.MaxBuffer)
	d := newDebouncer(k.cfg.Debounce, k.onBatch)
	go k.observe(ch, d)

	// Immediate pass on installation.
	k.reconcile()
}

func (k *Keeper) observe(ch <-chan mutation.Record, d *debouncer) {
	for {
		select {
		case <-k.done:
			return

		case rec := <-ch:
			d.add(rec)

		case <-d.timerC():
			d.flush()
		}
	}
}

// onBatch is the debouncer flush callback: one reconciliation per batch,
// not one per individual mutation.
func (k *Keeper) onBatch(records []mutation.Record) {
	batch := mutation.Batch{
		ID:        idgen.New(),
		Seq:       k.seq.Add(1),
		Records:   records,
		Timestamp: time.Now().UnixMilli(),
	}
	k.logger.Debug("introveil: host batch",
		"seq", batch.Seq, "records", len(batch.Records))
	k.Reconcile()
}

// debouncer collects raw records and emits compressed batches when the
// window expires or the buffer fills.
type debouncer struct {
	cfg     DebounceConfig
	records []mutation.Record
	timer   *time.Timer
	timerCh <-chan time.Time
	flushFn func([]mutation.Record)
}

func newDebouncer(cfg DebounceConfig, flushFn func([]mutation.Record)) *debouncer {
	return &debouncer{
		cfg:     cfg,
		records: make([]mutation.Record, 0, cfg.MaxBuffer),
		flushFn: flushFn,
	}
}

// add pushes a record into the buffer, flushing immediately when full.
func (d *debouncer) add(rec mutation.Record) {
	d.records = append(d.records, rec)

	if len(d.records) >= d.cfg.MaxBuffer {
		d.flush()
		return
	}

	// (Re)start the window timer.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.NewTimer(d.cfg.Window)
	d.timerCh = d.timer.C
}

// timerC returns the channel that fires when the debounce window expires.
func (d *debouncer) timerC() <-chan time.Time {
	return d.timerCh
}

// flush compresses and emits the buffered records, then resets.
func (d *debouncer) flush() {
	if len(d.records) == 0 {
		return
	}

	compressed := mutation.Compress(d.records)
	d.records = d.records[:0]
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		d.timerCh = nil
	}

	d.flushFn(compressed)
}
