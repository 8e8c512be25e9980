package service

import (
	"errors"
	"strconv"
	"time"

	"parley/config"
	"parley/internal/domain"
	"parley/internal/models"
	"parley/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidStatus  = errors.New("invalid presence status")
	ErrNoPresenceData = errors.New("no presence data for user")
	ErrBotPresence    = errors.New("presence is not supported for bot users")
	ErrCannotViewUser = errors.New("insufficient permission")
)

// Aggregated is one user's presence reduced from all their client rows.
// Derived on demand, never stored.
type Aggregated struct {
	Status    string
	Timestamp time.Time
}

// Aggregate picks the most recent record and applies the offline threshold:
// if even the freshest heartbeat is older than the threshold the user is
// OFFLINE, with the timestamp still reflecting last-seen. Ties on timestamp
// break to the lexicographically smallest client name so the result is
// deterministic. ok is false for an empty record set.
func Aggregate(records []models.UserPresence, now time.Time, offlineThreshold time.Duration) (agg Aggregated, ok bool) {
	if len(records) == 0 {
		return Aggregated{}, false
	}
	best := records[0]
	for _, rec := range records[1:] {
		if rec.Timestamp.After(best.Timestamp) ||
			(rec.Timestamp.Equal(best.Timestamp) && rec.ClientName < best.ClientName) {
			best = rec
		}
	}
	agg = Aggregated{Status: best.Status, Timestamp: best.Timestamp}
	if now.Sub(best.Timestamp) > offlineThreshold {
		agg.Status = domain.PresenceOffline
	}
	return agg, true
}

// ViewMode selects which fields a presence projection exposes.
type ViewMode int

const (
	// ViewOwn is the user's own dashboard: per-client rows with pushable.
	ViewOwn ViewMode = iota
	// ViewOther is what other users see: status and timestamp only.
	ViewOther
)

// PresenceEntry is one wire-level presence value.
type PresenceEntry struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Pushable  *bool  `json:"pushable,omitempty"`
}

// PresenceView maps client names to entries, plus the synthetic "aggregated"
// key.
type PresenceView map[string]PresenceEntry

// projectFull builds the legacy full-shape view from one user's records.
// Both shapes share Aggregate, so full and slim can never disagree.
func projectFull(records []models.UserPresence, now time.Time, mode ViewMode, offlineThreshold time.Duration) (PresenceView, bool) {
	agg, ok := Aggregate(records, now, offlineThreshold)
	if !ok {
		return nil, false
	}
	view := make(PresenceView, len(records)+1)
	for _, rec := range records {
		entry := PresenceEntry{Status: rec.Status, Timestamp: rec.Timestamp.Unix()}
		if mode == ViewOwn {
			pushable := rec.Pushable
			entry.Pushable = &pushable
		}
		view[rec.ClientName] = entry
	}
	view["aggregated"] = PresenceEntry{Status: agg.Status, Timestamp: agg.Timestamp.Unix()}
	return view, true
}

// pruneHistory drops records older than the client's history window. They
// are excluded from aggregation, not just hidden.
func pruneHistory(records []models.UserPresence, now time.Time, historyLimitDays int) []models.UserPresence {
	cutoff := now.AddDate(0, 0, -historyLimitDays)
	kept := records[:0]
	for _, rec := range records {
		if !rec.Timestamp.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	return kept
}

type PresenceService struct {
	cfg          *config.PresenceConfig
	presenceRepo *repository.PresenceRepository
	userRepo     *repository.UserRepository
	realmRepo    *repository.RealmRepository
	activityRepo *repository.ActivityRepository
}

func NewPresenceService(
	cfg *config.PresenceConfig,
	presenceRepo *repository.PresenceRepository,
	userRepo *repository.UserRepository,
	realmRepo *repository.RealmRepository,
	activityRepo *repository.ActivityRepository,
) *PresenceService {
	return &PresenceService{
		cfg:          cfg,
		presenceRepo: presenceRepo,
		userRepo:     userRepo,
		realmRepo:    realmRepo,
		activityRepo: activityRepo,
	}
}

// RecordHeartbeat overwrites the (user, client) presence row and advances
// the realm checkpoint. newUserInput marks pings caused by genuine user
// activity, which also bumps the user's activity log.
func (s *PresenceService) RecordHeartbeat(user *models.User, clientName string, now time.Time, status string, newUserInput bool) error {
	if user.IsBot() {
		return ErrBotPresence
	}
	if !domain.ValidPresenceStatus(status) {
		return ErrInvalidStatus
	}
	pushable := domain.PushableClient(clientName)
	if _, err := s.presenceRepo.Upsert(user.RealmID, user.ID, clientName, now, status, pushable); err != nil {
		return err
	}
	if newUserInput {
		if err := s.activityRepo.Touch(user.ID, clientName, "update_presence", now); err != nil {
			return err
		}
	}
	return nil
}

// HeartbeatOptions carries the protocol knobs of a heartbeat request.
type HeartbeatOptions struct {
	Status       string
	NewUserInput bool
	PingOnly     bool
	Slim         bool
	// LastUpdateID is the checkpoint the client already holds; nil for the
	// legacy protocol. Supplying it implies the slim protocol.
	LastUpdateID     *int64
	HistoryLimitDays *int
}

// Heartbeat records a ping and assembles the response: empty for ping-only
// requests, otherwise the caller's own presence in the requested shape. In
// mirror realms the response also reports whether the user's mirror bot has
// been active within the configured window.
func (s *PresenceService) Heartbeat(user *models.User, clientName string, now time.Time, opts HeartbeatOptions) (map[string]any, error) {
	if opts.LastUpdateID != nil {
		opts.Slim = true
	}
	if err := s.RecordHeartbeat(user, clientName, now, opts.Status, opts.NewUserInput); err != nil {
		return nil, err
	}

	ret := map[string]any{}
	if !opts.PingOnly {
		var err error
		ret, err = s.OwnPresence(user, now, opts.Slim, opts.LastUpdateID, opts.HistoryLimitDays)
		if err != nil {
			return nil, err
		}
	}

	realm, err := s.realmRepo.GetByID(user.RealmID)
	if err != nil {
		return nil, err
	}
	if realm.IsMirrorRealm {
		ret["zephyr_mirror_active"] = s.mirrorActive(user, now)
	}
	return ret, nil
}

// OwnPresence builds the caller's own presence payload in either shape.
// In the slim shape, a client whose checkpoint is already current gets an
// empty presence map as the no-change signal.
func (s *PresenceService) OwnPresence(user *models.User, now time.Time, slim bool, lastUpdateID *int64, historyLimitDays *int) (map[string]any, error) {
	if slim {
		current, err := s.presenceRepo.CurrentUpdateID(user.RealmID)
		if err != nil {
			return nil, err
		}
		if lastUpdateID != nil && *lastUpdateID >= current {
			return map[string]any{
				"presence":                map[string]PresenceEntry{},
				"presence_last_update_id": current,
			}, nil
		}
		records, err := s.presenceRepo.ListByUser(user.ID)
		if err != nil {
			return nil, err
		}
		if historyLimitDays != nil {
			records = pruneHistory(records, now, *historyLimitDays)
		}
		presence := map[string]PresenceEntry{}
		if agg, ok := Aggregate(records, now, s.cfg.OfflineThreshold()); ok {
			presence[strconv.FormatUint(uint64(user.ID), 10)] = PresenceEntry{
				Status:    agg.Status,
				Timestamp: agg.Timestamp.Unix(),
			}
		}
		return map[string]any{
			"presence":                presence,
			"presence_last_update_id": current,
		}, nil
	}

	records, err := s.presenceRepo.ListByUser(user.ID)
	if err != nil {
		return nil, err
	}
	if historyLimitDays != nil {
		records = pruneHistory(records, now, *historyLimitDays)
	}
	view, ok := projectFull(records, now, ViewOwn, s.cfg.OfflineThreshold())
	if !ok {
		view = PresenceView{}
	}
	return map[string]any{"presence": view}, nil
}

// UserPresence builds the full-shape view of target for viewer, stripping
// client internals unless the viewer asks about themselves.
func (s *PresenceService) UserPresence(target, viewer *models.User, now time.Time) (PresenceView, error) {
	if target.IsBot() {
		return nil, ErrBotPresence
	}
	if !s.userRepo.CanView(target, viewer) {
		return nil, ErrCannotViewUser
	}
	records, err := s.presenceRepo.ListByUser(target.ID)
	if err != nil {
		return nil, err
	}
	mode := ViewOther
	if target.ID == viewer.ID {
		mode = ViewOwn
	}
	view, ok := projectFull(records, now, mode, s.cfg.OfflineThreshold())
	if !ok {
		return nil, ErrNoPresenceData
	}
	return view, nil
}

// RealmPresence is the full-shape snapshot for every visible user in the
// viewer's realm, keyed by user id. No checkpoint: this endpoint is not
// incremental.
func (s *PresenceService) RealmPresence(viewer *models.User, now time.Time) (map[string]PresenceView, error) {
	rows, err := s.presenceRepo.ListVisibleByRealm(viewer.RealmID, viewer.ID)
	if err != nil {
		return nil, err
	}
	byUser := map[uint][]models.UserPresence{}
	for _, rec := range rows {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}
	out := make(map[string]PresenceView, len(byUser))
	for userID, records := range byUser {
		mode := ViewOther
		if userID == viewer.ID {
			mode = ViewOwn
		}
		if view, ok := projectFull(records, now, mode, s.cfg.OfflineThreshold()); ok {
			out[strconv.FormatUint(uint64(userID), 10)] = view
		}
	}
	return out, nil
}

func (s *PresenceService) mirrorActive(user *models.User, now time.Time) bool {
	last, err := s.activityRepo.LastActivity(user.ID, domain.MirrorClientName, "get_events")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		return false
	}
	return now.Sub(last) < s.cfg.MirrorActivityWindow
}
