package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoTenantID = "demo"

var demoActors = []struct {
	id   string
	name string
}{
	{"user-olivia", "Olivia Grant"},
	{"user-marcus", "Marcus Webb"},
	{"user-priya", "Priya Sharma"},
}

// EnsureDemoActivities populates the demo tenant with a small feed so a fresh
// install has something to show. Idempotent: skipped when the tenant already
// has records.
func EnsureDemoActivities(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Activity{}).
			Where("tenant_id = ?", demoTenantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		types := domain.Types()
		base := time.Now().UTC().Add(-time.Duration(len(types)) * time.Minute)
		for i, activityType := range types {
			actor := demoActors[i%len(demoActors)]
			entityID := fmt.Sprintf("demo-entity-%d", i+1)
			activity := domain.Activity{
				ID:        node.Generate(),
				TenantID:  demoTenantID,
				ActorID:   actor.id,
				ActorName: actor.name,
				Type:      activityType,
				EntityID:  &entityID,
				Metadata: datatypes.JSONMap{
					"description": fmt.Sprintf("demo %s event", activityType),
					"seeded":      true,
				},
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
