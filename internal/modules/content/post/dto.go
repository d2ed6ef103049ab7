package post

import "strings"

type CreatePostDTO struct {
	Title    string  `json:"title"    binding:"required,max=255"`
	Content  string  `json:"content"`
	Excerpt  string  `json:"excerpt"`
	Category string  `json:"category" binding:"required,max=100"`
	Tags     string  `json:"tags"     binding:"max=500"`
	Image    string  `json:"image"    binding:"max=500"`
	Author   string  `json:"author"   binding:"max=100"`
	Status   *string `json:"status"   binding:"omitempty,oneof=draft published"`
}

func (d *CreatePostDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.Tags = normalizeTags(d.Tags)
	d.Author = strings.TrimSpace(d.Author)
}

// UpdatePostDTO lists the only fields an update may touch.
type UpdatePostDTO struct {
	Title    *string `json:"title"    binding:"omitempty,min=1,max=255"`
	Content  *string `json:"content"`
	Excerpt  *string `json:"excerpt"`
	Category *string `json:"category" binding:"omitempty,min=1,max=100"`
	Tags     *string `json:"tags"     binding:"omitempty,max=500"`
	Image    *string `json:"image"    binding:"omitempty,max=500"`
	Author   *string `json:"author"   binding:"omitempty,max=100"`
	Status   *string `json:"status"   binding:"omitempty,oneof=draft published"`
}

func (d *UpdatePostDTO) Normalize() {
	trim(d.Title)
	trim(d.Category)
	trim(d.Author)
	if d.Tags != nil {
		*d.Tags = normalizeTags(*d.Tags)
	}
}

func (d *UpdatePostDTO) updates() map[string]interface{} {
	m := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			m[col] = *v
		}
	}
	set("title", d.Title)
	set("content", d.Content)
	set("excerpt", d.Excerpt)
	set("category", d.Category)
	set("tags", d.Tags)
	set("image", d.Image)
	set("author", d.Author)
	set("status", d.Status)
	return m
}

// ListQuery carries the allow-listed list filters.
type ListQuery struct {
	Category string
	Search   string
	Status   string
}

// CategoryStat is one row of the per-category counts.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

func trim(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}

// normalizeTags trims and de-duplicates a comma separated tag list.
func normalizeTags(raw string) string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return strings.Join(out, ",")
}
