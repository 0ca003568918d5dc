package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	StoreAirtable = "airtable"
	StoreSQL      = "sql"
	StoreMemory   = "memory"
)

const (
	MimeCSV = "text/csv"
)
