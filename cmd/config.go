package cmd

import "fmt"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	S3Bucket string
	S3Region string

	ReconcileSchedule   string
	OrphanSweepSchedule string
}

// DSN builds the Postgres connection string, shared by the GORM connection
// and the LISTEN/NOTIFY feed.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
