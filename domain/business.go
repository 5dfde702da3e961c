package domain

const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// ManagingRoles are the permission roles that receive business-side
// notifications.
var ManagingRoles = []string{RoleOwner, RoleAdmin, RoleManager}

type Business struct {
	Id      string `bson:"_id"`
	Name    string `bson:"name,omitempty"`
	OwnerId string `bson:"ownerId"`
}

// Permission grants a user a role on a business.
type Permission struct {
	UserId     string `bson:"userId"`
	BusinessId string `bson:"businessId"`
	Role       string `bson:"role"`
}

type Conversation struct {
	Id           string   `bson:"_id"`
	Participants []string `bson:"participants"`
}
