package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/core/domain"
)

// dbTime normalises a timestamp to the stored precision in UTC.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(domain.StoreResolution)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dbTime(*t), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time.UTC()
	return &v
}

func encodeTimestamps(ts domain.Timestamps) (string, error) {
	if len(ts) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]time.Time(ts))
	return string(raw), err
}

func decodeTimestamps(raw sql.NullString) (domain.Timestamps, error) {
	if !raw.Valid || raw.String == "" {
		return domain.Timestamps{}, nil
	}
	var values []time.Time
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, err
	}
	return domain.NewTimestamps(values...), nil
}

// encodeDocuments stores URIs as a JSON array so no character inside a URI
// can split it.
func encodeDocuments(docs []string) (sql.NullString, error) {
	docs = domain.MergeDocuments(nil, docs...)
	if len(docs) == 0 {
		return sql.NullString{}, nil
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	// Keep & < > literal so LIKE searches see the URI as typed.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: strings.TrimSuffix(buf.String(), "\n"), Valid: true}, nil
}

// decodeDocuments also reads rows written as a comma-joined list.
func decodeDocuments(raw sql.NullString) ([]string, error) {
	value := strings.TrimSpace(raw.String)
	if !raw.Valid || value == "" {
		return nil, nil
	}
	if !strings.HasPrefix(value, "[") {
		return domain.MergeDocuments(nil, strings.Split(value, ",")...), nil
	}
	var docs []string
	if err := json.Unmarshal([]byte(value), &docs); err != nil {
		return nil, err
	}
	return domain.MergeDocuments(nil, docs...), nil
}

func encodeMetadata(meta map[string]string) (sql.NullString, error) {
	if len(meta) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeMetadata(raw sql.NullString) map[string]string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	meta := map[string]string{}
	if err := json.Unmarshal([]byte(raw.String), &meta); err != nil {
		return nil
	}
	return meta
}
