package models

// LaneType selects which eligibility rules apply to the lane.
type LaneType string

const (
	LaneAll      LaneType = "all"
	LanePriority LaneType = "priority"
	LaneRegular  LaneType = "regular"
)

type LaneStatus string

const (
	LaneActive      LaneStatus = "active"
	LaneMaintenance LaneStatus = "maintenance"
)

type Lane struct {
	ID     string     `json:"id_lane"`
	Name   string     `json:"name"`
	Office string     `json:"office"`
	Order  int        `json:"lane_order"`
	Type   LaneType   `json:"lane_type"`
	Status LaneStatus `json:"status"`

	// Empty slices mean no restriction.
	AllowedCourses    []string `json:"allowed_courses"`
	AllowedYearLevels []string `json:"allowed_year_levels"`
	ServicesOffered   []string `json:"services_offered"`
}
