package file

import "strings"

// Kind selects the accepted formats and the storage folder of an upload.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

type rule struct {
	exts map[string]struct{}
	// sniffed content types accepted besides the kind's own "<kind>/" family
	extraTypes map[string]struct{}
}

var rules = map[Kind]rule{
	KindImage: {
		exts: set("jpg", "jpeg", "png", "gif", "webp"),
	},
	KindAudio: {
		exts:       set("mp3", "wav", "ogg", "m4a", "aac"),
		extraTypes: set("application/ogg", "video/mp4"),
	},
}

func set(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, item := range items {
		m[item] = struct{}{}
	}
	return m
}

func (r rule) allowsExt(ext string) bool {
	_, ok := r.exts[ext]
	return ok
}

// allowsType checks the sniffed type. Raw MP3 and AAC frames sniff as
// octet-stream, so those fall back to the declared part header.
func (r rule) allowsType(kind Kind, sniffed, declared string) bool {
	family := string(kind) + "/"
	if strings.HasPrefix(sniffed, family) {
		return true
	}
	if _, ok := r.extraTypes[sniffed]; ok {
		return true
	}
	return kind == KindAudio && sniffed == "application/octet-stream" && strings.HasPrefix(declared, family)
}

func extList(r rule) string {
	out := make([]string, 0, len(r.exts))
	for _, k := range []string{"jpg", "jpeg", "png", "gif", "webp", "mp3", "wav", "ogg", "m4a", "aac"} {
		if _, ok := r.exts[k]; ok {
			out = append(out, k)
		}
	}
	return strings.Join(out, ", ")
}
