package domain

// Device is a registered device entry on the user document.
type Device struct {
	Token string `bson:"token" json:"token"`
}

// Profile is the notification-relevant slice of the user document.
type Profile struct {
	Id                string   `bson:"_id"`
	Name              string   `bson:"name,omitempty"`
	NotificationToken string   `bson:"notificationToken,omitempty"`
	Devices           []Device `bson:"devices,omitempty"`
	BadgeCount        int      `bson:"badgeCount"`
	Updated           int64    `bson:"updated"`
}

// Tokens returns the union of the primary notification token and all device
// tokens, order preserving, without duplicates.
func (p Profile) Tokens() []string {
	seen := make(map[string]struct{}, len(p.Devices)+1)
	tokens := make([]string, 0, len(p.Devices)+1)
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	add(p.NotificationToken)
	for _, d := range p.Devices {
		add(d.Token)
	}
	return tokens
}
