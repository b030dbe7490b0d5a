// internal/services/setting_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

// SettingKeyWhatsAppNumber holds the number WhatsApp checkouts are sent to.
const SettingKeyWhatsAppNumber = "whatsapp_number"

var settingKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,100}$`)

// ErrInvalidSettingKey is returned for keys outside [a-zA-Z0-9_.-]{1,100}.
var ErrInvalidSettingKey = errors.New("invalid setting key")

type SettingService struct {
	store storage.Storage
	log   logrus.FieldLogger
}

func NewSettingService(store storage.Storage, log logrus.FieldLogger) *SettingService {
	return &SettingService{
		store: store,
		log:   log,
	}
}

func (s *SettingService) ListSettings(ctx context.Context) ([]models.Setting, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// Lookup returns the value stored under key, or "" when it is unset.
func (s *SettingService) Lookup(ctx context.Context, key string) (string, error) {
	setting, err := s.store.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// PutSetting creates or replaces the value under key.
func (s *SettingService) PutSetting(ctx context.Context, key string, req *models.UpdateSettingRequest) (*models.Setting, error) {
	if !settingKeyPattern.MatchString(key) {
		return nil, ErrInvalidSettingKey
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	setting, err := s.store.UpsertSetting(ctx, key, *req.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}

	s.log.WithField("key", key).Info("Setting saved")
	return setting, nil
}
