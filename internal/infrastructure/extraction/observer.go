package extraction

import "log/slog"

// ProbeObserver receives the outcome of every extraction probe so heuristic
// drift can be watched in logs, metrics, or test recorders.
type ProbeObserver interface {
	ProbeResult(field string, matched bool)
}

type slogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver logs every probe outcome at debug level.
func NewSlogObserver(logger *slog.Logger) ProbeObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogObserver{logger: logger}
}

func (o *slogObserver) ProbeResult(field string, matched bool) {
	o.logger.Debug("extraction_probe", "field", field, "matched", matched)
}

type nopObserver struct{}

func (nopObserver) ProbeResult(string, bool) {}

// MultiObserver fans one probe outcome out to several observers.
func MultiObserver(observers ...ProbeObserver) ProbeObserver {
	filtered := make([]ProbeObserver, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return multiObserver(filtered)
}

type multiObserver []ProbeObserver

func (m multiObserver) ProbeResult(field string, matched bool) {
	for _, obs := range m {
		obs.ProbeResult(field, matched)
	}
}
