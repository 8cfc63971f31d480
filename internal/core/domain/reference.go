package domain

// EntityType is the discriminator stored next to polymorphic references
// (entityType, assigneeType, createdByType, uploadByType).
type EntityType string

const (
	EntityUser        EntityType = "user"
	EntityClient      EntityType = "client"
	EntityClientUser  EntityType = "client-user"
	EntityDebtor      EntityType = "debtor"
	EntityApplication EntityType = "application"
	EntityInsurer     EntityType = "insurer"
)

var entityTypes = []EntityType{
	EntityUser, EntityClient, EntityClientUser, EntityDebtor, EntityApplication, EntityInsurer,
}

// ParseEntityType validates a raw discriminator.
func ParseEntityType(s string) (EntityType, error) {
	for _, t := range entityTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", NewValidationError(CodeInvalidEntity, "unknown entity type %q", s)
}
