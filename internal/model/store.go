package model

// Check-in store backends selectable with CHECKIN_STORE.
const (
	StoreSQL   = "sql"
	StoreMongo = "mongo"
	StoreRedis = "redis"
	StoreS3    = "s3"
)
