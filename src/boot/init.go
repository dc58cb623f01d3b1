package boot

import (
	"context"
	"eventspark/src/common"
	"eventspark/src/config"
	"eventspark/src/db"
	"eventspark/src/lib"
	"eventspark/src/models"
	"log"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(models.All()...)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// Bootstrap seeds roles and the bootstrap admin once at process start.
func Bootstrap(gdb *gorm.DB) {
	email, password := config.GetBootstrapAdmin()
	if err := common.Bootstrap(context.Background(), gdb, email, password); err != nil {
		log.Fatalf("error bootstrapping: %s", err.Error())
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = lib.CreateCronJob("inventory-gauge", config.GetInventoryRefreshInterval(), func() {
		if err := common.RefreshInventoryGauge(context.Background(), db.GetDb()); err != nil {
			log.Printf("Error refreshing inventory gauge: %s\n", err.Error())
		}
	})
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
