package activity

import "gorm.io/gorm"

// Activity is an append-only audit row. Nothing in the service reads it back
// except the admin listing endpoint.
type Activity struct {
	gorm.Model
	Action     string `json:"action" gorm:"index;not null"`
	EntityType string `json:"entity_type" gorm:"index;not null"`
	EntityID   uint   `json:"entity_id" gorm:"index"`
	ActorID    uint   `json:"actor_id" gorm:"index"`
}

// Record appends an audit row inside the caller's transaction.
func Record(db *gorm.DB, action, entityType string, entityID, actorID uint) error {
	return db.Create(&Activity{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
	}).Error
}

// List returns audit rows, newest first.
func List(db *gorm.DB, page, limit int) ([]Activity, int64, error) {
	var rows []Activity
	var total int64

	query := db.Model(&Activity{})
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
