package domain

// CanModify decides whether the actor may mutate a resource owned by
// ownerID. Admins may act on anything; everyone else only on their own
// records. Pure function, consulted before every update and delete.
func CanModify(actor Identity, ownerID string) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	return actor.ID == ownerID
}
