package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/wordstackio/backend/internal/services/auth"
)

// Key layout:
//
//	sess:<sid>            JSON sessionDoc
//	sess_refresh:<sid>    current refresh token for the session
//	refresh:<token>       JSON sessionDoc (sid included)
//	user_sess:<user_id>   set of live sids
//
// Everything carries the refresh TTL so Redis garbage-collects expired
// sessions on its own.
const (
	keySession     = "sess:"
	keySessionRef  = "sess_refresh:"
	keyRefresh     = "refresh:"
	keyUserSession = "user_sess:"
)

type sessionDoc struct {
	UserID    int64  `json:"user_id"`
	SID       string `json:"sid"`
	ExpiresAt int64  `json:"expires_at"`
}

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, session authsvc.SessionRecord, refreshToken string) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(refreshToken) == "" || session.UserID <= 0 {
		return authsvc.ErrInvalidInput
	}

	return r.writeSession(ctx, sessionDoc{
		UserID:    session.UserID,
		SID:       session.SID,
		ExpiresAt: session.ExpiresAt.Unix(),
	}, refreshToken, nil)
}

func (r *SessionRepo) GetSession(ctx context.Context, sid string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, errors.New("redis client is nil")
	}

	doc, err := r.readDoc(ctx, keySession+sid)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
		}
		return authsvc.SessionRecord{}, err
	}

	doc.SID = sid
	return recordFromDoc(doc), nil
}

func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, errors.New("redis client is nil")
	}

	doc, err := r.readDoc(ctx, keyRefresh+refreshToken)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
		}
		return authsvc.SessionRecord{}, err
	}
	if doc.SID == "" {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}

	return recordFromDoc(doc), nil
}

// RotateRefresh atomically replaces the refresh token for a session and
// pushes all expiries to the new horizon. An oldRefreshToken that no longer
// resolves means the token was already rotated or revoked.
func (r *SessionRepo) RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}

	current, err := r.GetByRefreshToken(ctx, oldRefreshToken)
	if err != nil {
		return err
	}
	if sid != "" && sid != current.SID {
		return authsvc.ErrRefreshNotFound
	}

	doc := sessionDoc{
		UserID:    current.UserID,
		SID:       current.SID,
		ExpiresAt: expiresAt.Unix(),
	}
	stale := keyRefresh + oldRefreshToken
	return r.writeSession(ctx, doc, newRefreshToken, []string{stale})
}

func (r *SessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	doc, err := r.readDoc(ctx, keySession+sid)
	if err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}

	refreshToken, err := r.client.Get(ctx, keySessionRef+sid).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("read session refresh pointer: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keySession+sid, keySessionRef+sid)
	if refreshToken != "" {
		pipe.Del(ctx, keyRefresh+refreshToken)
	}
	if doc.UserID > 0 {
		pipe.SRem(ctx, userSessionsKey(doc.UserID), sid)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session %q: %w", sid, err)
	}
	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if userID <= 0 {
		return authsvc.ErrInvalidInput
	}

	sids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions for user %d: %w", userID, err)
	}
	for _, sid := range sids {
		if err := r.DeleteSession(ctx, sid); err != nil {
			return err
		}
	}

	if err := r.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("drop session set for user %d: %w", userID, err)
	}
	return nil
}

// writeSession stores the session doc under both the sid and refresh keys,
// repoints the per-sid refresh pointer, and indexes the sid for the user.
// Extra keys in drop are deleted in the same pipeline.
func (r *SessionRepo) writeSession(ctx context.Context, doc sessionDoc, refreshToken string, drop []string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode session doc: %w", err)
	}
	ttl := ttlFor(time.Unix(doc.ExpiresAt, 0))

	pipe := r.client.TxPipeline()
	for _, key := range drop {
		pipe.Del(ctx, key)
	}
	pipe.Set(ctx, keySession+doc.SID, raw, ttl)
	pipe.Set(ctx, keyRefresh+refreshToken, raw, ttl)
	pipe.Set(ctx, keySessionRef+doc.SID, refreshToken, ttl)
	pipe.SAdd(ctx, userSessionsKey(doc.UserID), doc.SID)
	pipe.Expire(ctx, userSessionsKey(doc.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session %q: %w", doc.SID, err)
	}
	return nil
}

func (r *SessionRepo) readDoc(ctx context.Context, key string) (sessionDoc, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return sessionDoc{}, err
		}
		return sessionDoc{}, fmt.Errorf("read session key %q: %w", key, err)
	}

	var doc sessionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return sessionDoc{}, fmt.Errorf("decode session doc at %q: %w", key, err)
	}
	if doc.UserID <= 0 {
		return sessionDoc{}, authsvc.ErrUnauthorized
	}
	return doc, nil
}

func recordFromDoc(doc sessionDoc) authsvc.SessionRecord {
	return authsvc.SessionRecord{
		SID:       doc.SID,
		UserID:    doc.UserID,
		ExpiresAt: time.Unix(doc.ExpiresAt, 0).UTC(),
	}
}

// ttlFor floors at one second so a record expiring "now" still lands in
// Redis long enough for the caller to observe it.
func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func userSessionsKey(userID int64) string {
	return keyUserSession + strconv.FormatInt(userID, 10)
}
