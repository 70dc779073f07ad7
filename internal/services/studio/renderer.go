package studio

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/magstudio/internal/models"
)

// PlaceholderHeroImage is used when a listicle has no hero image
const PlaceholderHeroImage = "https://images.unsplash.com/photo-1550684848-fac1c5b4e853?q=80&w=2070&auto=format&fit=crop"

//go:embed listicle.html.tmpl
var listicleTemplate string

var cosmeticPattern = regexp.MustCompile(`(<span data-cosmetic>ID: )0x[0-9a-f]+(</span>)`)

// Renderer turns ListicleData into page markup. Apart from the per-card
// cosmetic token, output depends only on the title and data.
// Safe for concurrent use.
type Renderer struct {
	tmpl *template.Template

	mu  sync.Mutex
	rng *rand.Rand
}

type renderCard struct {
	Index    int
	Item     models.ListicleItem
	RawBlock template.HTML
	Token    string
}

type renderPage struct {
	Title     string
	HeroImage string
	ItemCount int
	Cards     []renderCard
}

// NewRenderer creates a renderer whose cosmetic tokens come from a generator
// seeded with seed. A zero seed uses the current time.
func NewRenderer(seed int64) (*Renderer, error) {
	tmpl, err := template.New("listicle").Parse(listicleTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listicle template: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Renderer{
		tmpl: tmpl,
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
	}, nil
}

// Render produces the listicle markup. Every non-trusted field is escaped for its context.
func (r *Renderer) Render(title string, data *models.ListicleData) (string, error) {
	if data == nil {
		return "", &RenderInputError{Reason: "listicle data is missing"}
	}
	if err := checkItemIDs(data.Items); err != nil {
		return "", err
	}

	hero := strings.TrimSpace(data.HeroImage)
	if hero == "" {
		hero = PlaceholderHeroImage
	}

	page := renderPage{
		Title:     title,
		HeroImage: hero,
		ItemCount: len(data.Items),
		Cards:     make([]renderCard, len(data.Items)),
	}
	for i, item := range data.Items {
		page.Cards[i] = renderCard{
			Index:    i + 1,
			Item:     item,
			RawBlock: template.HTML(item.RawBlock),
			Token:    r.token(),
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render listicle: %w", err)
	}
	return buf.String(), nil
}

// Verify checks that a list-shaped result's content is the render of its title and data.
// Cosmetic tokens are masked before comparing. Results without listicle data always pass.
func (r *Renderer) Verify(result *models.GenerationResult) error {
	if result == nil || result.ListicleData == nil {
		return nil
	}
	rendered, err := r.Render(result.Title, result.ListicleData)
	if err != nil {
		return err
	}
	if MaskCosmetic(rendered) != MaskCosmetic(result.Content) {
		return fmt.Errorf("content does not match the render of listicle data")
	}
	return nil
}

// MaskCosmetic blanks the per-card cosmetic tokens so two renders of the same data compare equal
func MaskCosmetic(markup string) string {
	return cosmeticPattern.ReplaceAllString(markup, "${1}0x------${2}")
}

func (r *Renderer) token() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("0x%06x", r.rng.Uint32()&0xffffff)
}

func checkItemIDs(items []models.ListicleItem) error {
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return &RenderInputError{Reason: fmt.Sprintf("item %d has an empty id", i+1)}
		}
		if _, dup := seen[item.ID]; dup {
			return &RenderInputError{Reason: fmt.Sprintf("duplicate item id %q", item.ID)}
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
