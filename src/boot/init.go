package boot

import (
	"log"
	"time"

	"descubre/src/common"
	"descubre/src/db"
	"descubre/src/lib"
	"descubre/src/models"
	"descubre/src/types"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Category{},
		&models.Event{},
		&models.TicketType{},
		&models.Review{},
		&models.User{},
		&models.Booking{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler wires the recurring maintenance jobs: dropping finished
// checkout sessions and cancelling bookings stuck in pending.
func InitScheduler(manager *common.Manager) {
	if _, err := lib.CreateCronJob(manager.Sweep, time.Minute); err != nil {
		log.Printf("Error scheduling session sweep: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(ExpireStaleBookings, 10*time.Minute); err != nil {
		log.Printf("Error scheduling booking expiry: %s\n", err.Error())
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// ExpireStaleBookings cancels bookings that never left pending. The
// booking service records confirmed rows directly, so pending rows only
// appear when a transaction was interrupted midway.
func ExpireStaleBookings() {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Booking{}).
			Where("booking_status = ?", types.BOOKING_PENDING).
			Where("created_at < ?", time.Now().Add(-1*time.Hour)).
			Update("booking_status", types.BOOKING_CANCELED).
			Error
	})
	if err != nil {
		log.Printf("Error while processing stale bookings: %s\n", err.Error())
	}
}
