package app

// Notification type discriminators. Payloads never carry deltas; each type
// only tells receivers which slice of canonical state to re-fetch.
const (
	NotificationJoinUser         = "joinUser"
	NotificationKickOutUsers     = "kickOutUsers"
	NotificationChangeValidArea  = "changeValidArea"
	NotificationChangePrisonArea = "changePrisonArea"
	NotificationRejectUser       = "rejectUser"
	NotificationReviveUser       = "reviveUser"
	NotificationPoliceUser       = "policeUser"
	NotificationGameStart        = "gameStart"
	NotificationGameTimeUp       = "gameTimeUp"
	NotificationGameStop         = "gameStop"
	// NotificationGameEnd is the legacy discriminator older clients send for
	// both "stopped" and "time up"; it dispatches as a full resync.
	NotificationGameEnd = "gameEnd"
	NotificationAbility = "ability"
)

// Payload keys observed alongside the discriminator.
const (
	KeyNotificationType = "notification_type"
	KeyPublisherID      = "publisherId"
	KeyAbilityType      = "abilityType"
	KeyCurrentPosition  = "currentPosition"
)

// AbilityRadar asks every participant device to report its position so the
// publisher can query them after the convergence buffer.
const AbilityRadar = "radar"
