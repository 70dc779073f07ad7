package studio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/magstudio/internal/models"
)

func TestNewRegistry_CoversEveryProfile(t *testing.T) {
	cfg := testConfig()
	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, testLogger())
	require.NoError(t, err)

	descriptors := registry.Descriptors()
	require.Len(t, descriptors, len(models.AllProfiles()))

	for i, profile := range models.AllProfiles() {
		d, err := registry.Resolve(profile)
		require.NoError(t, err, profile)
		assert.Equal(t, profile, descriptors[i].Profile)
		assert.NotEmpty(t, d.Schema)
		assert.NotNil(t, d.PostProcess)
		assert.NotNil(t, d.Template)
		assert.Equal(t, cfg.Gemini.Model, d.Model)
		assert.Equal(t, profile == models.ProfileListicle, d.ListShaped)
	}
}

func TestNewRegistry_GroundedProfiles(t *testing.T) {
	cfg := testConfig()
	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, testLogger())
	require.NoError(t, err)

	grounded := map[models.Profile]bool{
		models.ProfileListicle: true,
		models.ProfileBlog:     true,
		models.ProfileResearch: true,
	}
	for _, d := range registry.Descriptors() {
		assert.Equal(t, grounded[d.Profile], d.Grounded, d.Profile)
	}
}

func TestNewRegistry_ModelOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Studio.ProfileModels = map[string]string{"blog": "claude-sonnet-4-20250514"}

	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, testLogger())
	require.NoError(t, err)

	d, err := registry.Resolve(models.ProfileBlog)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", d.Model)
}

func TestNewRegistry_IncompleteTableFails(t *testing.T) {
	cfg := testConfig()

	table := make(map[models.Profile]profileRow, len(profileTable))
	for k, v := range profileTable {
		table[k] = v
	}
	delete(table, models.ProfileVideoStory)

	_, err := newRegistry(table, &cfg.Studio, &cfg.Gemini, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "videoStory")

	table[models.ProfileVideoStory] = profileRow{schema: pageSchema(nil)}
	_, err = newRegistry(table, &cfg.Studio, &cfg.Gemini, testLogger())
	assert.Error(t, err)
}

func TestResolve_Unknown(t *testing.T) {
	cfg := testConfig()
	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, testLogger())
	require.NoError(t, err)

	_, err = registry.Resolve("magazine")
	var notFound *ProfileNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestBuildPrompt(t *testing.T) {
	cfg := testConfig()
	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, testLogger())
	require.NoError(t, err)

	listicle, err := registry.Resolve(models.ProfileListicle)
	require.NoError(t, err)

	req := &models.GenerationRequest{
		Profile:    models.ProfileListicle,
		Topic:      "Coffee gear",
		Brief:      "Focus on espresso",
		ImageURL:   "https://example.com/beans.jpg",
		ButtonText: "Shop now",
		ButtonLink: "https://shop.example.com",
	}
	prompt := listicle.BuildPrompt(req, "WEB SOURCES:\n- https://a")

	assert.Equal(t, prompt, listicle.BuildPrompt(req, "WEB SOURCES:\n- https://a"))
	assert.Contains(t, prompt, "Listicle Expert Crew")
	assert.Contains(t, prompt, "TOPIC: Coffee gear")
	assert.Contains(t, prompt, "BRIEF: Focus on espresso")
	assert.Contains(t, prompt, "REFERENCE IMAGE: https://example.com/beans.jpg")
	assert.Contains(t, prompt, `CALL TO ACTION: button "Shop now" linking to https://shop.example.com`)
	assert.Contains(t, prompt, "Return between 9 and 12 items.")
	assert.Contains(t, prompt, "CONTEXT:\nWEB SOURCES:\n- https://a")

	blog, err := registry.Resolve(models.ProfileBlog)
	require.NoError(t, err)
	bare := blog.BuildPrompt(&models.GenerationRequest{Profile: models.ProfileBlog, Topic: "x"}, "")
	assert.Contains(t, bare, "BRIEF: No additional brief.")
	assert.NotContains(t, bare, "REFERENCE IMAGE")
	assert.NotContains(t, bare, "CONTEXT:")
	assert.NotContains(t, bare, "Return between")
}

func TestBuildPrompt_InteractiveProfilesUseBridge(t *testing.T) {
	cfg := testConfig()
	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, testLogger())
	require.NoError(t, err)

	for _, profile := range []models.Profile{models.ProfileCourse, models.ProfileChatbot} {
		d, err := registry.Resolve(profile)
		require.NoError(t, err)
		assert.Contains(t, d.BuildPrompt(&models.GenerationRequest{Profile: profile, Topic: "x"}, ""), "window.StudioBridge", profile)
	}

	podcast, err := registry.Resolve(models.ProfilePodcast)
	require.NoError(t, err)
	assert.Contains(t, podcast.BuildPrompt(&models.GenerationRequest{Profile: models.ProfilePodcast, Topic: "x", Mode: models.PodcastModeDuo}, ""), "two hosts")
}
