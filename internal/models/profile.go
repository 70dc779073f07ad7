package models

// Profile identifies a generation strategy. The set is closed; see AllProfiles.
type Profile string

const (
	ProfileListicle       Profile = "listicle"
	ProfileBlog           Profile = "blog"
	ProfileCourse         Profile = "course"
	ProfileChatbot        Profile = "chatbot"
	ProfilePodcast        Profile = "podcast"
	ProfileVideoStory     Profile = "videoStory"
	ProfileLeadGen        Profile = "leadGen"
	ProfileMiniApp        Profile = "miniApp"
	ProfileAd             Profile = "ad"
	ProfileResearch       Profile = "research"
	ProfileVideoGallery   Profile = "videoGallery"
	ProfileProductGallery Profile = "productGallery"
	ProfileLayout         Profile = "layout"
)

// AllProfiles returns every known profile in a stable order
func AllProfiles() []Profile {
	return []Profile{
		ProfileListicle,
		ProfileBlog,
		ProfileCourse,
		ProfileChatbot,
		ProfilePodcast,
		ProfileVideoStory,
		ProfileLeadGen,
		ProfileMiniApp,
		ProfileAd,
		ProfileResearch,
		ProfileVideoGallery,
		ProfileProductGallery,
		ProfileLayout,
	}
}

// IsValid reports whether p is a member of the closed profile set
func (p Profile) IsValid() bool {
	for _, known := range AllProfiles() {
		if p == known {
			return true
		}
	}
	return false
}

// PodcastMode selects the narration voice for the podcast profile
type PodcastMode string

const (
	PodcastModeSolo PodcastMode = "solo"
	PodcastModeDuo  PodcastMode = "duo"
)
