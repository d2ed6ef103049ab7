package volume

import "strings"

type CreateVolumeDTO struct {
	Title        string  `json:"title"         binding:"required,max=255"`
	Description  string  `json:"description"`
	Excerpt      string  `json:"excerpt"`
	Category     string  `json:"category"      binding:"required,max=100"`
	Price        float64 `json:"price"         binding:"gte=0"`
	Image        string  `json:"image"         binding:"max=500"`
	DownloadLink string  `json:"download_link" binding:"max=500"`
	Content      string  `json:"content"`
	AudioURL     string  `json:"audio_url"     binding:"max=500"`
	Status       *string `json:"status"        binding:"omitempty,oneof=draft published"`
}

func (d *CreateVolumeDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.DownloadLink = strings.TrimSpace(d.DownloadLink)
	d.AudioURL = strings.TrimSpace(d.AudioURL)
}

// UpdateVolumeDTO lists the only fields an update may touch.
type UpdateVolumeDTO struct {
	Title        *string  `json:"title"         binding:"omitempty,min=1,max=255"`
	Description  *string  `json:"description"`
	Excerpt      *string  `json:"excerpt"`
	Category     *string  `json:"category"      binding:"omitempty,min=1,max=100"`
	Price        *float64 `json:"price"         binding:"omitempty,gte=0"`
	Image        *string  `json:"image"         binding:"omitempty,max=500"`
	DownloadLink *string  `json:"download_link" binding:"omitempty,max=500"`
	Content      *string  `json:"content"`
	AudioURL     *string  `json:"audio_url"     binding:"omitempty,max=500"`
	Status       *string  `json:"status"        binding:"omitempty,oneof=draft published"`
}

func (d *UpdateVolumeDTO) Normalize() {
	for _, v := range []*string{d.Title, d.Category, d.DownloadLink, d.AudioURL} {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}

func (d *UpdateVolumeDTO) updates() map[string]interface{} {
	m := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			m[col] = *v
		}
	}
	set("title", d.Title)
	set("description", d.Description)
	set("excerpt", d.Excerpt)
	set("category", d.Category)
	set("image", d.Image)
	set("download_link", d.DownloadLink)
	set("content", d.Content)
	set("audio_url", d.AudioURL)
	set("status", d.Status)
	if d.Price != nil {
		m["price"] = *d.Price
	}
	return m
}

type ListQuery struct {
	Category string
	Search   string
	Status   string
}

type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DownloadResult is returned to a reader requesting a volume download.
type DownloadResult struct {
	DownloadLink string `json:"download_link"`
	Downloads    uint   `json:"downloads"`
}
