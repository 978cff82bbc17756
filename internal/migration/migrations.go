// Package migration lists the schema steps of the Honeydew database in order.
package migration

import (
	"gorm.io/gorm"

	"github.com/suteetoe/honeydew/internal/model"
	"github.com/suteetoe/honeydew/pkg/database"
)

// All returns every migration, oldest first. The list is handed to
// database.Migrate; nothing here is global state.
func All() []database.Migration {
	return []database.Migration{
		{
			ID: "100_initial_create",
			Applied: func(m gorm.Migrator) bool {
				return m.HasTable(&model.BillingPlan{}) && m.HasTable(&model.Tenant{}) &&
					m.HasTable(&model.User{}) && m.HasTable(&model.ApiClient{})
			},
			Apply: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.BillingPlan{}, &model.Tenant{}, &model.User{}, &model.ApiClient{})
			},
		},
		{
			// databases created before capability flags were split out
			ID: "300_add_can_create_user",
			Applied: func(m gorm.Migrator) bool {
				return m.HasColumn(&model.User{}, "CanCreateUser")
			},
			Apply: func(tx *gorm.DB) error {
				return tx.Migrator().AddColumn(&model.User{}, "CanCreateUser")
			},
		},
		{
			ID: "400_add_todo",
			Applied: func(m gorm.Migrator) bool {
				return m.HasTable(&model.TodoItem{})
			},
			Apply: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.TodoItem{})
			},
		},
		{
			ID: "500_add_todo_assigned_due_date_and_votes",
			Applied: func(m gorm.Migrator) bool {
				return m.HasColumn(&model.TodoItem{}, "AssignedToUserID") &&
					m.HasColumn(&model.TodoItem{}, "DueDate") &&
					m.HasTable(&model.TodoItemVote{})
			},
			Apply: func(tx *gorm.DB) error {
				for _, col := range []string{"AssignedToUserID", "DueDate"} {
					if !tx.Migrator().HasColumn(&model.TodoItem{}, col) {
						if err := tx.Migrator().AddColumn(&model.TodoItem{}, col); err != nil {
							return err
						}
					}
				}
				return tx.AutoMigrate(&model.TodoItemVote{})
			},
		},
		{
			ID: "600_add_support_tickets",
			Applied: func(m gorm.Migrator) bool {
				return m.HasTable(&model.SupportTicket{}) && m.HasColumn(&model.Tenant{}, "BillingPlanID")
			},
			Apply: func(tx *gorm.DB) error {
				if !tx.Migrator().HasColumn(&model.Tenant{}, "BillingPlanID") {
					if err := tx.Migrator().AddColumn(&model.Tenant{}, "BillingPlanID"); err != nil {
						return err
					}
				}
				return tx.Migrator().CreateTable(&model.SupportTicket{})
			},
		},
		{
			ID: "700_add_support_ticket_replies",
			Applied: func(m gorm.Migrator) bool {
				return m.HasTable(&model.SupportTicketReply{})
			},
			Apply: func(tx *gorm.DB) error {
				// the reply foreign key is declared on SupportTicket.Replies
				return tx.AutoMigrate(&model.SupportTicket{}, &model.SupportTicketReply{})
			},
		},
		{
			ID: "800_add_user_preferences",
			Applied: func(m gorm.Migrator) bool {
				return m.HasTable(&model.UserPreference{})
			},
			Apply: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.UserPreference{})
			},
		},
		{
			ID: "900_add_tenant_settings",
			Applied: func(m gorm.Migrator) bool {
				return m.HasColumn(&model.Tenant{}, "Settings")
			},
			Apply: func(tx *gorm.DB) error {
				return tx.Migrator().AddColumn(&model.Tenant{}, "Settings")
			},
		},
	}
}
