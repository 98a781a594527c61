// Package status defines the server status published to the dashboards.
package status

// ActivityStats summarizes the downloaded activities and stored tracks.
// Time fields are ISO 8601 strings and nil until the first download.
type ActivityStats struct {
	ActCount   int     `json:"act_count" doc:"Number of downloaded activities"`
	ActMinTime *string `json:"act_min_time" doc:"Start time of the oldest activity"`
	ActMaxTime *string `json:"act_max_time" doc:"Start time of the newest activity"`
	TrkCount   int     `json:"trk_count" doc:"Number of stored tracks"`
	TrkMaxTime *string `json:"trk_max_time" doc:"Start time of the newest stored track"`
}

// Merge folds the counters and time range of other into s.
func (s *ActivityStats) Merge(other ActivityStats) {
	s.ActCount += other.ActCount
	s.TrkCount += other.TrkCount
	if other.ActMinTime != nil && (s.ActMinTime == nil || *other.ActMinTime < *s.ActMinTime) {
		s.ActMinTime = other.ActMinTime
	}
	if other.ActMaxTime != nil && (s.ActMaxTime == nil || *other.ActMaxTime > *s.ActMaxTime) {
		s.ActMaxTime = other.ActMaxTime
	}
	if other.TrkMaxTime != nil && (s.TrkMaxTime == nil || *other.TrkMaxTime > *s.TrkMaxTime) {
		s.TrkMaxTime = other.TrkMaxTime
	}
}

// ServerStatus is the object streamed to the status dashboards and returned
// by the /status endpoint.
type ServerStatus struct {
	Authorized    bool          `json:"authorized" doc:"Whether the server holds a valid authorization"`
	DownloadState string        `json:"download_state" doc:"Current state of the download scheduler"`
	ActivityStats ActivityStats `json:"activity_stats" doc:"Download statistics"`
}
