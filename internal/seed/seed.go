package seed

import (
	"fmt"
	"log"
	"math/rand"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
}

// Run seeds the database with a social mesh of users, messages, follows,
// and likes.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumMessages <= 0 {
		opts.NumMessages = opts.NumUsers * 5
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("cleaning tables: %w", err)
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users (password %q)", len(users), DemoPassword)

	messages := make([]*models.Message, 0, opts.NumMessages)
	for i := 0; i < opts.NumMessages; i++ {
		author := users[rand.Intn(len(users))]
		message, err := f.CreateMessage(author, 90)
		if err != nil {
			return fmt.Errorf("creating message: %w", err)
		}
		messages = append(messages, message)
	}
	log.Printf("seeded %d messages", len(messages))

	// Everyone follows a handful of others.
	follows := 0
	for _, follower := range users {
		for i := 0; i < rand.Intn(6)+2; i++ {
			followed := users[rand.Intn(len(users))]
			if err := f.CreateFollow(follower, followed); err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
			follows++
		}
	}
	log.Printf("seeded follow edges (%d attempts)", follows)

	likes := 0
	for _, user := range users {
		for i := 0; i < rand.Intn(8); i++ {
			message := messages[rand.Intn(len(messages))]
			if err := f.CreateLike(user, message); err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
			likes++
		}
	}
	log.Printf("seeded likes (%d attempts)", likes)

	return nil
}

func clean(db *gorm.DB) error {
	// Children before parents.
	for _, model := range []interface{}{
		&models.Like{}, &models.Follow{}, &models.Message{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
