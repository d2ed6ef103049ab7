package main

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/ministry-site/core/internal/models"
	"github.com/ministry-site/core/internal/modules/content/post"
	"github.com/ministry-site/core/internal/modules/content/volume"
	"github.com/ministry-site/core/internal/modules/outreach/prayer"
	"go.uber.org/zap"
)

var (
	postCategories   = []string{"devotional", "teaching", "testimony", "announcement"}
	volumeCategories = []string{"sermons", "worship", "study"}
	prayerCategories = []string{"health", "family", "guidance", "thanksgiving"}
)

type demoCommand struct {
	Posts   int   `long:"posts" default:"12" description:"Number of posts"`
	Volumes int   `long:"volumes" default:"6" description:"Number of volumes"`
	Prayers int   `long:"prayers" default:"10" description:"Number of prayer requests"`
	Seed    int64 `long:"seed" default:"0" description:"Random seed, 0 picks one"`
}

func (c *demoCommand) Execute([]string) error {
	e, err := open()
	if err != nil {
		return err
	}
	defer e.close()

	if c.Seed != 0 {
		gofakeit.Seed(c.Seed)
	}
	ctx := context.Background()

	posts := post.NewService(e.db)
	for i := 0; i < c.Posts; i++ {
		dto := &post.CreatePostDTO{
			Title:    gofakeit.Sentence(gofakeit.Number(3, 8)),
			Content:  "# " + gofakeit.Sentence(6) + "\n\n" + gofakeit.Paragraph(3, 4, 18, "\n\n"),
			Category: gofakeit.RandomString(postCategories),
			Tags:     fmt.Sprintf("%s,%s", gofakeit.Word(), gofakeit.Word()),
			Author:   gofakeit.Name(),
			Status:   randomStatus(),
		}
		dto.Normalize()
		p, err := posts.Create(ctx, dto)
		if err != nil {
			return fmt.Errorf("create post %d: %w", i+1, err)
		}
		e.log.Debug("post created", zap.Uint("id", p.ID), zap.String("title", p.Title))
	}

	volumes := volume.NewService(e.db)
	for i := 0; i < c.Volumes; i++ {
		dto := &volume.CreateVolumeDTO{
			Title:        gofakeit.Sentence(gofakeit.Number(2, 5)),
			Description:  gofakeit.Paragraph(2, 3, 15, "\n\n"),
			Category:     gofakeit.RandomString(volumeCategories),
			Price:        gofakeit.Price(0, 30),
			DownloadLink: gofakeit.URL(),
			Status:       randomStatus(),
		}
		dto.Normalize()
		if _, err := volumes.Create(ctx, dto); err != nil {
			return fmt.Errorf("create volume %d: %w", i+1, err)
		}
	}

	prayers := prayer.NewService(e.db, nil)
	for i := 0; i < c.Prayers; i++ {
		dto := &prayer.CreatePrayerDTO{
			Name:         gofakeit.FirstName(),
			Category:     gofakeit.RandomString(prayerCategories),
			Request:      gofakeit.Sentence(gofakeit.Number(10, 25)),
			IsAnonymous:  gofakeit.Bool(),
			AllowSharing: gofakeit.Bool(),
		}
		if gofakeit.Bool() {
			email := gofakeit.Email()
			dto.Email = &email
		}
		dto.Normalize()
		if _, err := prayers.Create(ctx, dto); err != nil {
			return fmt.Errorf("create prayer %d: %w", i+1, err)
		}
	}

	e.log.Info("demo data seeded",
		zap.Int("posts", c.Posts),
		zap.Int("volumes", c.Volumes),
		zap.Int("prayers", c.Prayers))
	return nil
}

func randomStatus() *string {
	s := string(models.StatusPublished)
	if gofakeit.Number(1, 4) == 1 {
		s = string(models.StatusDraft)
	}
	return &s
}

func init() {
	_, _ = parser.AddCommand("demo", "Fill the content tables with demo data", "", &demoCommand{})
}
