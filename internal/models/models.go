package models

import "encoding/json"

// CareEvent is one timestamped observation of a care category for one user.
//
// Besides the fixed fields, each event type carries its own set of fields
// (temperature, seizureType, amount, ...). Those live in Extra and are
// flattened to the top level of the JSON document, so stored collections stay
// wire-compatible with backup envelopes produced by earlier versions.
type CareEvent struct {
	ID        string
	EventType string
	Timestamp string // RFC3339
	UserID    string
	Time      string // free-form clock time as entered by staff
	TimeOfDay string // "morning", "afternoon", "evening", "night" or empty
	Notes     string
	Photos    []string // data URLs, capped at MaxEventPhotos
	Extra     map[string]any
}

// MaxEventPhotos is the maximum number of photo attachments per event.
const MaxEventPhotos = 3

func (e CareEvent) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(e.Extra)+8)
	for k, v := range e.Extra {
		doc[k] = v
	}
	// An empty fixed field never clobbers a legacy non-string value that
	// UnmarshalJSON parked under the same key in Extra.
	setString := func(key, val string) {
		if val == "" {
			if _, exists := doc[key]; exists {
				return
			}
		}
		doc[key] = val
	}
	setString("id", e.ID)
	setString("eventType", e.EventType)
	setString("timestamp", e.Timestamp)
	setString("userId", e.UserID)
	setString("time", e.Time)
	if e.TimeOfDay != "" {
		doc["timeOfDay"] = e.TimeOfDay
	}
	if e.Notes != "" {
		doc["notes"] = e.Notes
	}
	if e.Photos != nil {
		doc["photos"] = e.Photos
	}
	return json.Marshal(doc)
}

func (e *CareEvent) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	e.ID = popString(doc, "id")
	e.EventType = popString(doc, "eventType")
	e.Timestamp = popString(doc, "timestamp")
	e.UserID = popString(doc, "userId")
	e.Time = popString(doc, "time")
	e.TimeOfDay = popString(doc, "timeOfDay")
	e.Notes = popString(doc, "notes")
	e.Photos = popStringSlice(doc, "photos")

	if len(doc) > 0 {
		e.Extra = doc
	} else {
		e.Extra = nil
	}
	return nil
}

// popString removes and returns a fixed string field. Legacy documents
// occasionally hold other types under these keys; those values stay in the
// document so they land in Extra instead of being dropped.
func popString(doc map[string]any, key string) string {
	v, ok := doc[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	delete(doc, key)
	return s
}

func popStringSlice(doc map[string]any, key string) []string {
	v, ok := doc[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	delete(doc, key)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// EmergencyContact is a user's emergency contact block.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// UserProfile is a care recipient's demographic and care-need record.
type UserProfile struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Furigana         string            `json:"furigana,omitempty"`
	Age              int               `json:"age,omitempty"`
	Gender           string            `json:"gender,omitempty"` // "male", "female", "other"
	DateOfBirth      string            `json:"dateOfBirth,omitempty"`
	ServiceType      string            `json:"serviceType,omitempty"` // "daily-care", "after-school", "day-support", "group-home", "home-care"
	DisabilityLevel  string            `json:"disabilityLevel,omitempty"`
	MedicalCareNeeds []string          `json:"medicalCareNeeds,omitempty"`
	GuardianName     string            `json:"guardianName,omitempty"`
	GuardianPhone    string            `json:"guardianPhone,omitempty"`
	Address          string            `json:"address,omitempty"`
	MedicalNumber    string            `json:"medicalNumber,omitempty"`
	CareLevel        string            `json:"careLevel,omitempty"`
	Allergies        []string          `json:"allergies,omitempty"`
	Medications      []string          `json:"medications,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt"`
}

// VitalEntry is one row of a case record's vitals table.
type VitalEntry struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
}

// ExcretionEntry is one row of a case record's excretion table.
type ExcretionEntry struct {
	Time  string `json:"time"`
	Urine string `json:"urine"`
	Stool string `json:"stool"`
}

// HydrationEntry is one row of a case record's hydration table.
type HydrationEntry struct {
	Time    string `json:"time"`
	Content string `json:"content"`
	Amount  string `json:"amount,omitempty"`
}

// OralIntakeEntry is one row of a case record's oral-intake table.
type OralIntakeEntry struct {
	Time   string `json:"time"`
	Food   string `json:"food"`
	Amount string `json:"amount"`
	Notes  string `json:"notes"`
}

// EyeDropEntry is one row of a case record's eye-drop table.
type EyeDropEntry struct {
	Time       string `json:"time"`
	Medication string `json:"medication"`
	Eye        string `json:"eye"`
}

// SeizureNote flags whether seizures occurred during the day.
type SeizureNote struct {
	Occurred bool   `json:"occurred"`
	Details  string `json:"details,omitempty"`
}

// PostureNote records the posture plan for morning and afternoon.
type PostureNote struct {
	AM string `json:"am"`
	PM string `json:"pm"`
}

// MassageNote records the massage section of a case record.
type MassageNote struct {
	Areas     []string `json:"areas"`
	Condition string   `json:"condition"`
	Content   string   `json:"content"`
}

// HealthManagement records the health-management observation grid.
type HealthManagement struct {
	AbdominalDistension    string `json:"abdominalDistension"` // "－", "軽", "＋" or empty
	BowelSounds            string `json:"bowelSounds"`         // "弱", "良", "亢進" or empty
	GastrostomyAbnormality bool   `json:"gastrostomyAbnormality"`
	SkinTrouble            bool   `json:"skinTrouble"`
}

// ContracturePrevention records contracture observations and care given.
type ContracturePrevention struct {
	ProgressingContractures []string `json:"progressingContractures"`
	CareDetails             string   `json:"careDetails"`
}

// PhysicalRestraint records restraint use during the day.
type PhysicalRestraint struct {
	Buggy      bool   `json:"buggy"`
	BedCushion bool   `json:"bedCushion"`
	Details    string `json:"details"`
}

// CaseRecord is one user's structured daily log sheet, keyed by (userId, date).
// At most one record per user per calendar date is intended; the lookup-before-
// create lives in the consumer, not the store.
type CaseRecord struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Date      string   `json:"date"` // YYYY-MM-DD
	DayOfWeek string   `json:"dayOfWeek"`
	Staff     []string `json:"staff"`

	Vitals     []VitalEntry      `json:"vitals"`
	Excretion  []ExcretionEntry  `json:"excretion"`
	Hydration  []HydrationEntry  `json:"hydration"`
	OralIntake []OralIntakeEntry `json:"oralIntake"`
	EyeDrops   []EyeDropEntry    `json:"eyeDrops"`

	Bathing  bool        `json:"bathing"`
	Seizures SeizureNote `json:"seizures"`
	Other    string      `json:"other"`
	Posture  PostureNote `json:"posture"`

	Choking           bool   `json:"choking"`
	Expression        string `json:"expression"` // "明るい", "暗い" or empty
	LipPursing        bool   `json:"lipPursing"`
	OtherObservations string `json:"otherObservations"`

	Massage          MassageNote      `json:"massage"`
	HealthManagement HealthManagement `json:"healthManagement"`

	PhysicalFunction      string                `json:"physicalFunction"`
	ContracturePrevention ContracturePrevention `json:"contracturePrevention"`
	PhysicalRestraint     PhysicalRestraint     `json:"physicalRestraint"`

	SpecialNotes    string   `json:"specialNotes"`
	Activities      string   `json:"activities"`
	StaffSignatures []string `json:"staffSignatures"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// DailyLogEntry is the per-category summary line of a daily log.
type DailyLogEntry struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
	LastRecorded string `json:"lastRecorded"`
}

// DailyLog is the derived per-user, per-day summary. It is recomputed on
// demand and never persisted.
type DailyLog struct {
	User   string          `json:"user"`
	Date   string          `json:"date"`
	Events []DailyLogEntry `json:"events"`
}

// AppSettings holds facility-wide application settings.
type AppSettings struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	AutoSave      bool   `json:"autoSave"`
	Notifications bool   `json:"notifications"`
}

// DefaultAppSettings returns the settings used when none have been saved.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme:         "light",
		Language:      "ja",
		AutoSave:      true,
		Notifications: true,
	}
}

// BackupDocument is the versioned full-export envelope of all persisted
// collections.
type BackupDocument struct {
	CareEvents      []CareEvent    `json:"careEvents"`
	UserProfiles    []UserProfile  `json:"userProfiles"`
	AppSettings     AppSettings    `json:"appSettings"`
	CustomUserNames []string       `json:"customUserNames"`
	FormOptions     map[string]any `json:"formOptions"`
	CaseRecords     []CaseRecord   `json:"caseRecords"`
	ExportDate      string         `json:"exportDate"`
	Version         string         `json:"version"`
}

// BackupVersion is the envelope version written by Export.
const BackupVersion = "1.1"

// StorageInfo describes how much space the slot store occupies.
type StorageInfo struct {
	UsedBytes int64 `json:"used_bytes"`
	Slots     int   `json:"slots"`
}
