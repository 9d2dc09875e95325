package objstore

import (
	"context"
	"testing"

	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

func TestUnsupportedModeRejected(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	_, err = New(context.Background(), log, Config{Mode: "bad-mode", Bucket: "b"})
	if err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestMissingBucketRejected(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	_, err = New(context.Background(), log, Config{Mode: ModeGCS})
	if err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestEmulatorModeRequiresHost(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	_, err = New(context.Background(), log, Config{Mode: ModeGCSEmulator, Bucket: "b"})
	if err == nil {
		t.Fatal("expected error when emulator host is unset")
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"twitter/renders/1.png":  "image/png",
		"twitter/renders/1.jpg":  "image/jpeg",
		"twitter/renders/1.JPEG": "image/jpeg",
		"twitter/media/1.webp":   "image/webp",
		"twitter/media/1.gif":    "image/gif",
		"twitter/media/1.bin":    "",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("contentTypeForKey(%q): got=%q want=%q", key, got, want)
		}
	}
}

func TestS3PublicURLShapes(t *testing.T) {
	pathStyle := &s3Service{bucket: "grabs", endpoint: "https://s3.example.com", usePathStyle: true}
	if got := pathStyle.PublicURL("twitter/renders/1.png"); got != "https://s3.example.com/grabs/twitter/renders/1.png" {
		t.Fatalf("path style url: got=%q", got)
	}

	virtual := &s3Service{bucket: "grabs", endpoint: "https://s3.example.com"}
	if got := virtual.PublicURL("twitter/renders/1.png"); got != "https://grabs.s3.example.com/twitter/renders/1.png" {
		t.Fatalf("virtual host url: got=%q", got)
	}

	cdn := &s3Service{bucket: "grabs", endpoint: "https://s3.example.com", cdnDomain: "https://cdn.example.com"}
	if got := cdn.PublicURL("twitter/renders/1.png"); got != "https://cdn.example.com/twitter/renders/1.png" {
		t.Fatalf("cdn url: got=%q", got)
	}
}

func TestGCSPublicURLShapes(t *testing.T) {
	plain := &gcsService{bucket: "grabs"}
	if got := plain.PublicURL("twitter/renders/1.png"); got != "https://storage.googleapis.com/grabs/twitter/renders/1.png" {
		t.Fatalf("gcs url: got=%q", got)
	}
	cdn := &gcsService{bucket: "grabs", cdnDomain: "https://cdn.example.com"}
	if got := cdn.PublicURL("twitter/renders/1.png"); got != "https://cdn.example.com/twitter/renders/1.png" {
		t.Fatalf("gcs cdn url: got=%q", got)
	}
}
