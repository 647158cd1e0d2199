package backup

import (
	"context"
	"time"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/pkg/logger"
)

// Auto-backup state lives under fixed keys in the local key-value area.
const (
	KeyAutoBackupEnabled = "auto_backup_enabled"
	KeyAutoBackupData    = "auto_backup_data"
	KeyLastAutoBackup    = "last_auto_backup"
)

// autoBackupInterval is the minimum gap between automatic snapshots.
const autoBackupInterval = 7 * 24 * time.Hour

// AutoBackupEnabled reports the feature flag.
func (s *Service) AutoBackupEnabled() (bool, error) {
	b, ok, err := s.local.KV().Get(KeyAutoBackupEnabled)
	if err != nil {
		return false, err
	}
	return ok && string(b) == "true", nil
}

// SetAutoBackupEnabled flips the flag; enabling runs a sweep immediately.
func (s *Service) SetAutoBackupEnabled(ctx context.Context, enabled bool) error {
	val := "false"
	if enabled {
		val = "true"
	}
	if err := s.local.KV().Set(KeyAutoBackupEnabled, []byte(val)); err != nil {
		return err
	}
	if enabled {
		if _, err := s.Sweep(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Sweep takes an automatic snapshot when the feature is enabled and the last
// one is older than the interval. Returns whether a snapshot was taken.
func (s *Service) Sweep(ctx context.Context) (bool, error) {
	enabled, err := s.AutoBackupEnabled()
	if err != nil || !enabled {
		return false, err
	}

	if b, ok, err := s.local.KV().Get(KeyLastAutoBackup); err != nil {
		return false, err
	} else if ok {
		last, perr := time.Parse(time.RFC3339, string(b))
		if perr == nil && s.now().Sub(last) <= autoBackupInterval {
			return false, nil
		}
	}

	doc, err := s.CreateFullBackup(ctx)
	if err != nil {
		return false, err
	}
	raw, err := ExportJSON(doc)
	if err != nil {
		return false, err
	}
	if err := s.local.KV().Set(KeyAutoBackupData, raw); err != nil {
		return false, err
	}
	if err := s.local.KV().Set(KeyLastAutoBackup, []byte(s.now().UTC().Format(time.RFC3339))); err != nil {
		return false, err
	}
	logger.Infof("auto-backup snapshot created (%d records)", doc.Metadata.TotalRecords)
	return true, nil
}

// LastAutoBackup returns the stored automatic snapshot, or nil when none was
// taken yet.
func (s *Service) LastAutoBackup() (*Document, error) {
	b, ok, err := s.local.KV().Get(KeyAutoBackupData)
	if err != nil || !ok {
		return nil, err
	}
	return Parse(b)
}

// AutoBackupSetting assembles the feature flag as a Setting record for the
// admin API.
func (s *Service) AutoBackupSetting() (models.Setting, error) {
	enabled, err := s.AutoBackupEnabled()
	if err != nil {
		return models.Setting{}, err
	}
	setting := models.Setting{Key: KeyAutoBackupEnabled, Value: "false"}
	if enabled {
		setting.Value = "true"
	}
	if b, ok, kerr := s.local.KV().Get(KeyLastAutoBackup); kerr == nil && ok {
		if last, perr := time.Parse(time.RFC3339, string(b)); perr == nil {
			setting.UpdatedAt = last
		}
	}
	return setting, nil
}
