package nakama

const (
	// RPC ids clients call on the Nakama runtime.
	RpcCreateQR       = "tag_create_qr"
	RpcJoinGame       = "tag_join_game"
	RpcReportPosition = "tag_report_position"
	RpcUseRadar       = "tag_use_radar"
	RpcLeaveGame      = "tag_leave_game"

	// Storage collections. One record per game id in CollectionGames, one
	// object per user in CollectionDevices, one object per reporter in
	// CollectionPositions.
	CollectionGames     = "tag_games"
	CollectionDevices   = "tag_devices"
	CollectionPositions = "tag_positions"

	// NotificationCodeTag marks every game-sync push this module sends.
	NotificationCodeTag = 1100

	// Env keys read from the runtime environment.
	EnvJoinSecret = "tag_join_secret"
	EnvJoinIssuer = "tag_join_issuer"
	EnvConfigPath = "tag_config_path"

	defaultConfigPath = "/nakama/data/game_config.json"
)
