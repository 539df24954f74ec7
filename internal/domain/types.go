package domain

import "time"

type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformThreads   Platform = "threads"
	PlatformYouTube   Platform = "youtube"
)

var platforms = map[Platform]bool{
	PlatformTwitter:   true,
	PlatformLinkedIn:  true,
	PlatformFacebook:  true,
	PlatformInstagram: true,
	PlatformThreads:   true,
	PlatformYouTube:   true,
}

// ParsePlatform validates a platform identifier against the supported set.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	return p, platforms[p]
}

// ScheduledPost is one entry in the schedule document. Field names are the
// persisted JSON schema; new fields must be optional so older documents load.
type ScheduledPost struct {
	ID           string     `json:"id"`
	GenerationID string     `json:"generationId"`
	Brand        string     `json:"brand"`
	Platforms    []Platform `json:"platforms"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	Status       PostStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// PostContent is a generated content item from the upstream queue,
// looked up by generation id and never mutated here.
type PostContent struct {
	Text         string              `json:"text"`
	PlatformText map[Platform]string `json:"platformText,omitempty"`
	Hashtags     []string            `json:"hashtags,omitempty"`
	ImageURL     string              `json:"imageUrl,omitempty"`
}

// TextFor resolves the post body for a set of target platforms: the first
// targeted platform with a specific variant wins, otherwise the generic text.
// Empty result means the content carries no usable text.
func (c PostContent) TextFor(targets []Platform) string {
	for _, p := range targets {
		if t, ok := c.PlatformText[p]; ok && t != "" {
			return t
		}
	}
	return c.Text
}

type PublishRequest struct {
	Brand     string     `json:"brand"`
	Text      string     `json:"text"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Platforms []Platform `json:"platforms"`
}

// PublishResult is the outcome for a single platform; one per requested
// platform, independent of the others.
type PublishResult struct {
	Platform Platform `json:"platform"`
	Success  bool     `json:"success"`
	Error    string   `json:"error,omitempty"`
}
