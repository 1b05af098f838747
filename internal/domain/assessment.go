package domain

// Gender of the student in a body-composition assessment.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// CommitmentLevel is the trainer's rating of the student's engagement.
type CommitmentLevel string

const (
	CommitmentExcellent CommitmentLevel = "Excelente"
	CommitmentGood      CommitmentLevel = "Bom"
	CommitmentRegular   CommitmentLevel = "Regular"
	CommitmentLow       CommitmentLevel = "Baixo"
)

// BodyMetrics holds one side of a paired measurement set.
// Weight is in kg, BodyFat in percent, every perimeter in cm.
type BodyMetrics struct {
	Weight       Number `json:"weight"`
	BodyFat      Number `json:"bodyFat"`
	Neck         Number `json:"neck"`
	Shoulders    Number `json:"shoulders"`
	Chest        Number `json:"chest"`
	ArmRight     Number `json:"armRight"`
	ArmLeft      Number `json:"armLeft"`
	ForearmRight Number `json:"forearmRight"`
	ForearmLeft  Number `json:"forearmLeft"`
	Waist        Number `json:"waist"`
	Abdomen      Number `json:"abdomen"`
	Hips         Number `json:"hips"`
	ThighRight   Number `json:"thighRight"`
	ThighLeft    Number `json:"thighLeft"`
	CalfRight    Number `json:"calfRight"`
	CalfLeft     Number `json:"calfLeft"`
}

// PhysicalTests holds one side of the paired performance battery.
type PhysicalTests struct {
	Pushups   Number `json:"pushups"`   // reps
	Squats    Number `json:"squats"`    // reps in 1 min
	Plank     Number `json:"plank"`     // seconds
	Pullups   Number `json:"pullups"`   // reps
	RestingHR Number `json:"restingHR"` // bpm
	Run12Min  Number `json:"run12min"`  // meters
	Pace      string `json:"pace"`      // min/km
}

// PhotoSlot names one of the six comparison photo positions.
type PhotoSlot string

const (
	PhotoFrontBefore PhotoSlot = "frontBefore"
	PhotoFrontAfter  PhotoSlot = "frontAfter"
	PhotoSideBefore  PhotoSlot = "sideBefore"
	PhotoSideAfter   PhotoSlot = "sideAfter"
	PhotoBackBefore  PhotoSlot = "backBefore"
	PhotoBackAfter   PhotoSlot = "backAfter"
)

// PhotoSlots lists every slot in display order.
var PhotoSlots = []PhotoSlot{
	PhotoFrontBefore, PhotoFrontAfter,
	PhotoSideBefore, PhotoSideAfter,
	PhotoBackBefore, PhotoBackAfter,
}

// Photos holds data URLs for the comparison photos.
type Photos struct {
	FrontBefore string `json:"frontBefore,omitempty"`
	FrontAfter  string `json:"frontAfter,omitempty"`
	SideBefore  string `json:"sideBefore,omitempty"`
	SideAfter   string `json:"sideAfter,omitempty"`
	BackBefore  string `json:"backBefore,omitempty"`
	BackAfter   string `json:"backAfter,omitempty"`
}

// Get returns the photo stored in slot.
func (p Photos) Get(slot PhotoSlot) string {
	switch slot {
	case PhotoFrontBefore:
		return p.FrontBefore
	case PhotoFrontAfter:
		return p.FrontAfter
	case PhotoSideBefore:
		return p.SideBefore
	case PhotoSideAfter:
		return p.SideAfter
	case PhotoBackBefore:
		return p.BackBefore
	case PhotoBackAfter:
		return p.BackAfter
	}
	return ""
}

// Set stores a photo in slot. It reports false for an unknown slot.
func (p *Photos) Set(slot PhotoSlot, dataURL string) bool {
	switch slot {
	case PhotoFrontBefore:
		p.FrontBefore = dataURL
	case PhotoFrontAfter:
		p.FrontAfter = dataURL
	case PhotoSideBefore:
		p.SideBefore = dataURL
	case PhotoSideAfter:
		p.SideAfter = dataURL
	case PhotoBackBefore:
		p.BackBefore = dataURL
	case PhotoBackAfter:
		p.BackAfter = dataURL
	default:
		return false
	}
	return true
}

// Any reports whether at least one slot is populated.
func (p Photos) Any() bool {
	for _, slot := range PhotoSlots {
		if p.Get(slot) != "" {
			return true
		}
	}
	return false
}

// Assessment is the body-composition progress assessment.
type Assessment struct {
	StudentName string `json:"studentName"`
	Age         Number `json:"age"`
	Height      Number `json:"height"` // cm
	Gender      Gender `json:"gender"`
	Goal        string `json:"goal"`
	Date        string `json:"date"`

	Commitment       CommitmentLevel `json:"commitment"`
	AdherenceRate    Number          `json:"adherenceRate"` // %
	WorkoutsPerMonth Number          `json:"workoutsPerMonth"`
	GeneralComments  string          `json:"generalComments"`

	Initial BodyMetrics `json:"initial"`
	Current BodyMetrics `json:"current"`

	InitialTests PhysicalTests `json:"initialTests"`
	CurrentTests PhysicalTests `json:"currentTests"`

	Photos Photos `json:"photos"`

	ManualTechnicalAnalysis string `json:"manualTechnicalAnalysis"`

	RecLoad          string `json:"recLoad"`
	RecIntensity     string `json:"recIntensity"`
	RecHabits        string `json:"recHabits"`
	NextGoal         string `json:"nextGoal"`
	ManualConclusion string `json:"manualConclusion"`
}
