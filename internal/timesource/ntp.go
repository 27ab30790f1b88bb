package timesource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
)

// QueryFunc queries an NTP server. ntp.QueryWithOptions satisfies it.
type QueryFunc func(host string, opt ntp.QueryOptions) (*ntp.Response, error)

// Source is the time-source contract the clock loop depends on.
type Source interface {
	// EpochTime returns seconds since the Unix epoch, UTC.
	EpochTime() int64
	// SetTimeOffset sets the offset added when formatting local time.
	SetTimeOffset(seconds int)
	// FormattedTime returns local time as HH:MM:SS.
	FormattedTime() string
	// Update queries the server if the sync interval elapsed.
	Update(ctx context.Context) error
	// ForceUpdate queries the server unconditionally.
	ForceUpdate(ctx context.Context) error
}

// Sync describes the last successful NTP query.
type Sync struct {
	// At is the local time the query completed.
	At time.Time
	// ClockOffset is server time minus local time.
	ClockOffset time.Duration
	// RTT is the round-trip delay of the query.
	RTT time.Duration
	// Stratum is the server stratum.
	Stratum uint8
}

// Option configures an NTPSource.
type Option func(*NTPSource)

// WithQuery replaces the NTP query function.
func WithQuery(query QueryFunc) Option {
	return func(s *NTPSource) {
		if query != nil {
			s.query = query
		}
	}
}

// WithClock replaces the local clock.
func WithClock(clock clockwork.Clock) Option {
	return func(s *NTPSource) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTimeout bounds each NTP query.
func WithTimeout(timeout time.Duration) Option {
	return func(s *NTPSource) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithRetryInterval sets the minimum time between a failed query and the next
// one made by Update. It is capped at the sync interval.
func WithRetryInterval(interval time.Duration) Option {
	return func(s *NTPSource) {
		if interval > 0 {
			s.retry = interval
		}
	}
}

// WithSyncInterval sets the minimum time between two queries made by Update.
func WithSyncInterval(interval time.Duration) Option {
	return func(s *NTPSource) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

const (
	// defaultTimeout bounds a query when no option sets it.
	defaultTimeout = 5 * time.Second
	// defaultSyncInterval is the query period when no option sets it.
	defaultSyncInterval = time.Minute
	// defaultRetryInterval is the wait after a failed query when no option sets it.
	defaultRetryInterval = 10 * time.Second
)

var (
	// errServerRequired is returned when no NTP host is configured.
	errServerRequired = errors.New("ntp server must be provided")
	// ErrNotSynced is returned by LastSync before the first successful query.
	ErrNotSynced = errors.New("not synchronized yet")
)

// NTPSource is a Source backed by an NTP server.
//
// Readings are safe for concurrent use; the clock loop updates it while the
// status API reads LastSync.
type NTPSource struct {
	server   string
	query    QueryFunc
	clock    clockwork.Clock
	timeout  time.Duration
	interval time.Duration
	retry    time.Duration

	mu          sync.RWMutex
	offset      int
	clockOffset time.Duration
	last        *Sync
	// nextAttempt is when Update queries again, zero before the first query.
	nextAttempt time.Time
}

// NewNTPSource returns a source querying server.
func NewNTPSource(server string, opts ...Option) (*NTPSource, error) {
	if server == "" {
		return nil, errServerRequired
	}

	s := &NTPSource{
		server:   server,
		query:    ntp.QueryWithOptions,
		clock:    clockwork.NewRealClock(),
		timeout:  defaultTimeout,
		interval: defaultSyncInterval,
		retry:    defaultRetryInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.retry = min(s.retry, s.interval)

	return s, nil
}

// Server returns the queried host.
func (s *NTPSource) Server() string {
	return s.server
}

// Now returns the local clock corrected by the last measured offset.
func (s *NTPSource) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.Now().Add(s.clockOffset)
}

// EpochTime implements Source.
func (s *NTPSource) EpochTime() int64 {
	return s.Now().Unix()
}

// SetTimeOffset implements Source.
func (s *NTPSource) SetTimeOffset(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = seconds
}

// TimeOffset returns the offset set with SetTimeOffset.
func (s *NTPSource) TimeOffset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.offset
}

// FormattedTime implements Source.
func (s *NTPSource) FormattedTime() string {
	return FormatTime(s.EpochTime(), s.TimeOffset())
}

// LastSync returns the last successful query.
func (s *NTPSource) LastSync() (Sync, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return Sync{}, ErrNotSynced
	}

	return *s.last, nil
}

// Update implements Source. It queries once the sync interval passed since
// the last success, or the retry interval since the last failure.
func (s *NTPSource) Update(ctx context.Context) error {
	s.mu.RLock()
	due := !s.clock.Now().Before(s.nextAttempt)
	s.mu.RUnlock()

	if !due {
		return nil
	}

	return s.ForceUpdate(ctx)
}

// ForceUpdate implements Source. On failure the previous offset stays in effect.
func (s *NTPSource) ForceUpdate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	//nolint:exhaustruct // Remaining query options keep library defaults.
	response, err := s.query(s.server, ntp.QueryOptions{Timeout: s.timeout})
	if err == nil {
		err = response.Validate()
		if err != nil {
			err = fmt.Errorf("validate response from %s: %w", s.server, err)
		}
	} else {
		err = fmt.Errorf("query %s: %w", s.server, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	if err != nil {
		s.nextAttempt = now.Add(s.retry)

		return err
	}

	s.nextAttempt = now.Add(s.interval)
	s.clockOffset = response.ClockOffset
	s.last = &Sync{
		At:          now,
		ClockOffset: response.ClockOffset,
		RTT:         response.RTT,
		Stratum:     response.Stratum,
	}

	return nil
}

// FormatTime renders utcEpoch shifted by offset seconds as HH:MM:SS.
func FormatTime(utcEpoch int64, offset int) string {
	return time.Unix(utcEpoch+int64(offset), 0).UTC().Format(time.TimeOnly)
}
