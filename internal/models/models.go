package models

type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Email     string `json:"email,omitempty"`
}

type TeamSocialMedia struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Website   string `json:"website,omitempty"`
}

type PersonalInfo struct {
	Name                string       `json:"name"`
	GraduationYear      float64      `json:"graduationYear"`
	Email               string       `json:"email"`
	Phone               string       `json:"phone,omitempty"`
	RecruitingPacketURL string       `json:"recruitingPacketUrl,omitempty"`
	SocialMedia         *SocialLinks `json:"socialMedia,omitempty"`
}

type Team struct {
	Name        string           `json:"name"`
	Coach       string           `json:"coach"`
	Contact     string           `json:"contact"`
	SocialMedia *TeamSocialMedia `json:"socialMedia,omitempty"`
}

type Athletics struct {
	PrimaryPosition    string   `json:"primaryPosition"`
	SecondaryPositions []string `json:"secondaryPositions,omitempty"`
	BattingThrows      string   `json:"battingThrows,omitempty"`
	Height             string   `json:"height,omitempty"`
	Weight             string   `json:"weight,omitempty"`
	Hometown           string   `json:"hometown"`
	HighSchool         *Team    `json:"highSchool,omitempty"`
	TravelTeam         *Team    `json:"travelTeam,omitempty"`
}

type Academics struct {
	GPA       *float64 `json:"gpa,omitempty"`
	ClassRank string   `json:"classRank,omitempty"`
	SATScore  *int     `json:"satScore,omitempty"`
	ACTScore  *int     `json:"actScore,omitempty"`
	Honors    []string `json:"honors,omitempty"`
	Awards    []string `json:"awards,omitempty"`
}

type Measurable struct {
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	Date        string `json:"date"`
	Improvement string `json:"improvement,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type ScoutingReport struct {
	Strengths   []string `json:"strengths"`
	Development []string `json:"development"`
	Intangibles []string `json:"intangibles"`
}

type Achievement struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Type        string `json:"type,omitempty"`
}

type CoachReference struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type PlayerProfile struct {
	PersonalInfo      PersonalInfo     `json:"personalInfo"`
	Athletics         Athletics        `json:"athletics"`
	Academics         *Academics       `json:"academics,omitempty"`
	Measurables       []Measurable     `json:"measurables"`
	ScoutingReport    *ScoutingReport  `json:"scoutingReport,omitempty"`
	LatestAchievement *Achievement     `json:"latestAchievement,omitempty"`
	Accolades         []Achievement    `json:"accolades,omitempty"`
	References        []CoachReference `json:"references,omitempty"`
	Videos            []VideoClip      `json:"videos,omitempty"`
}

type BlogPost struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Slug           string `json:"slug,omitempty"`
	Content        string `json:"content"`
	Excerpt        string `json:"excerpt"`
	Date           string `json:"date"`
	Category       string `json:"category"`
	Published      bool   `json:"published"`
	Image          string `json:"image,omitempty"`
	AutoPostToX    bool   `json:"autoPostToX,omitempty"`
	XPostScheduled bool   `json:"xPostScheduled,omitempty"`
}

type BlogData struct {
	Posts []BlogPost `json:"posts"`
}

const (
	EventTournament = "tournament"
	EventShowcase   = "showcase"
	EventCamp       = "camp"
	EventVisit      = "visit"
	EventGame       = "game"
)

type ScheduleEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	EndDate         string `json:"endDate,omitempty"`
	Location        string `json:"location,omitempty"`
	Type            string `json:"type,omitempty"`
	Description     string `json:"description,omitempty"`
	CoachAttendance *bool  `json:"coachAttendance,omitempty"`
	Status          string `json:"status,omitempty"`
}

type ScheduleData struct {
	Events []ScheduleEvent `json:"events"`
}

const (
	SlotHero     = "heroImage"
	SlotProfile  = "profileImage"
	SlotFeatured = "featuredAction"
)

type Photo struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName,omitempty"`
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	Category     string `json:"category"`
	UploadDate   string `json:"uploadDate"`
	IsActive     bool   `json:"isActive"`
}

type PhotosConfig struct {
	Photos       []Photo           `json:"photos"`
	ActivePhotos map[string]string `json:"activePhotos"`
}

const (
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

const (
	SocialDraft     = "draft"
	SocialScheduled = "scheduled"
	SocialPosted    = "posted"
	SocialFailed    = "failed"
)

type SocialMediaPost struct {
	ID            string   `json:"id"`
	Platform      string   `json:"platform"`
	Content       string   `json:"content"`
	ScheduledDate string   `json:"scheduledDate,omitempty"`
	Status        string   `json:"status"`
	BlogPostID    string   `json:"blogPostId,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	PostedAt      string   `json:"postedAt,omitempty"`
	MediaURLs     []string `json:"mediaUrls,omitempty"`
	Hashtags      []string `json:"hashtags"`
}

type Credentials struct {
	APIKey       string `json:"apiKey"`
	APISecret    string `json:"apiSecret"`
	AccessToken  string `json:"accessToken"`
	AccessSecret string `json:"accessSecret"`
}

type PlatformSettings struct {
	Enabled         bool         `json:"enabled"`
	AutoPost        bool         `json:"autoPost"`
	DefaultHashtags []string     `json:"defaultHashtags,omitempty"`
	Credentials     *Credentials `json:"credentials,omitempty"`
}

type SocialSettings struct {
	Twitter   PlatformSettings `json:"twitter"`
	Instagram PlatformSettings `json:"instagram"`
	Facebook  PlatformSettings `json:"facebook"`
}

type SocialMediaConfig struct {
	Posts    []SocialMediaPost `json:"posts"`
	Settings SocialSettings    `json:"settings"`
}

const (
	VideoHitting  = "hitting"
	VideoFielding = "fielding"
	VideoGame     = "game"
	VideoSkills   = "skills"
)

const (
	SourceUpload      = "upload"
	SourceYouTube     = "youtube"
	SourceGameChanger = "gamechanger"
	SourceHudl        = "hudl"
)

type VideoClip struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	URL               string  `json:"url"`
	Thumbnail         string  `json:"thumbnail"`
	Category          string  `json:"category"`
	Duration          int     `json:"duration"`
	Date              string  `json:"date"`
	Featured          bool    `json:"featured"`
	Source            string  `json:"source"`
	TeamProfileHubURL *string `json:"teamProfileHubUrl,omitempty"`
}

type VideosData struct {
	Videos []VideoClip `json:"videos"`
}
