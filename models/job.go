package models

// ReportJob is the message payload for queued report ingestion. The file
// must already be readable at FilePath on this host.
type ReportJob struct {
	BrandID  string `json:"brand_id"`
	FilePath string `json:"file_path"`
}
