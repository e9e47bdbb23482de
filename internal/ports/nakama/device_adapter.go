package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fieldtag/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaDeviceAdapter implements ports.DeviceRegistry on Nakama storage. The
// latest registration wins; a reinstall simply overwrites the old address.
type NakamaDeviceAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaDeviceAdapter creates a new device registry adapter.
func NewNakamaDeviceAdapter(nk runtime.NakamaModule) *NakamaDeviceAdapter {
	return &NakamaDeviceAdapter{nk: nk}
}

// PutDevice registers deviceID as the user's current push address.
func (a *NakamaDeviceAdapter) PutDevice(ctx context.Context, userID, deviceID string) error {
	if userID == "" || deviceID == "" {
		return fmt.Errorf("user id and device id are required")
	}

	record := map[string]interface{}{
		"deviceId":     deviceID,
		"registeredAt": time.Now().UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal device record: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      CollectionDevices,
			Key:             "push_address",
			UserID:          userID,
			Value:           string(value),
			Version:         "",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_OWNER_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to register device for %s: %w", userID, err)
	}
	return nil
}

var _ ports.DeviceRegistry = (*NakamaDeviceAdapter)(nil)
