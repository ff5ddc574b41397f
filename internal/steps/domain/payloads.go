package domain

// Per-step payload shapes as the wizard forms send them. The engine stores
// payloads opaquely; these types exist for collaborators that build or read
// step data (seeding, admin export) and as the reference for what each step
// carries. Only AgreementPayload (step 1) is inspected by the engine, through
// DecodeIdentity.

// AgreementPayload is step 1: agreement consent plus applicant identity.
type AgreementPayload struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Whatsapp            string `json:"whatsapp"`
	AgreementConsent    string `json:"agreementConsent"`
	AttachmentConsent   string `json:"attachmentConsent"`
	Signature           string `json:"signature"`
	AttachmentSignature string `json:"attachmentSignature"`
}

// PersonalPayload is step 2: personal details, introduction, socials, and
// internship logistics. Document images arrive as externally hosted URLs or
// data URLs; this service never stores file contents.
type PersonalPayload struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Whatsapp        string `json:"whatsapp"`
	Position        string `json:"position"`
	Birthday        string `json:"birthday"`
	Introduction    string `json:"introduction"`
	Quirk           string `json:"quirk"`
	Hobbies         string `json:"hobbies"`
	FavoriteFood    string `json:"favoriteFood"`
	Persona         string `json:"persona"`
	FavoriteBook    string `json:"favoriteBook"`
	SystemSpecs     string `json:"systemSpecs"`
	LearningGoal    string `json:"learningGoal"`
	FutureSkillset  string `json:"futureSkillset"`
	Facebook        string `json:"facebook"`
	Instagram       string `json:"instagram"`
	LinkedIn        string `json:"linkedin"`
	Twitter         string `json:"twitter"`
	BankDetails     string `json:"bankDetails"`
	StartTime       string `json:"startTime"`
	LunchPreference string `json:"lunchPreference"`
}

// WorkspacePayload is step 3: the workspace tooling checklist.
type WorkspacePayload struct {
	ChatSetup            bool `json:"chatSetup"`
	TaskTrackerSetup     bool `json:"taskTrackerSetup"`
	MobileAppsSetup      bool `json:"mobileAppsSetup"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
	BookmarksAdded       bool `json:"bookmarksAdded"`
	AllToolsConfirmed    bool `json:"allToolsConfirmed"`
}

// ValuesPayload is step 4: acknowledgement of company values.
type ValuesPayload struct {
	ValuesRead   bool   `json:"valuesRead"`
	Acknowledged bool   `json:"acknowledged"`
	Notes        string `json:"notes"`
}

// RoadmapPayload is step 5: roadmap videos and next steps.
type RoadmapPayload struct {
	VideosWatched string `json:"videosWatched"`
	NextStepsRead string `json:"nextStepsRead"`
	Questions     string `json:"questions"`
}
