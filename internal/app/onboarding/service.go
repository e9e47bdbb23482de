package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"fieldtag/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	devices  ports.DeviceRegistry
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/devices must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, devices ports.DeviceRegistry, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		devices:  devices,
		rng:      rng,
	}
}

// OnboardNewUser initializes a newly authenticated device account. The user
// gets a friendly display name and the device id is registered as the user's
// push address so notifications reach it.
// Returns a Result with any non-fatal issues and an error if the device
// registration cannot be stored.
func (s *Service) OnboardNewUser(ctx context.Context, userID, deviceID string) (Result, error) {
	if s.accounts == nil || s.devices == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		// Profile updates are best-effort; the push address is more important.
		result.ProfileUpdateErr = err
	}

	if deviceID != "" {
		if err := s.devices.PutDevice(ctx, userID, deviceID); err != nil {
			return result, fmt.Errorf("failed to register device: %w", err)
		}
	}

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
