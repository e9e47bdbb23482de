package domain

// User holds the identity of a joined participant. Identity is ID; DeviceID
// is the mutable push address of the device the user registered from.
type User struct {
	ID       string
	Name     string
	DeviceID string
}

// UserInfo is the flattened {userId, name} pair returned by the user
// directory lookup on the backing store.
type UserInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// UserIDs flattens users to their ids, preserving order.
func UserIDs(users []User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
