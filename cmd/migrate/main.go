package main

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"holdem-server/pkg/db"
)

func main() {
	waitForDB()
	db.Migrate()
	logrus.Info("migrations complete")
}

func waitForDB() {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh := func() *sql.DB {
				defer func() { _ = recover() }()
				return db.Instance()
			}()

			if dbh != nil {
				return
			}

			time.Sleep(time.Millisecond * 500)
		}
	}
}
