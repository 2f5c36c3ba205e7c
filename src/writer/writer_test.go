package writer

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	_ "golang.org/x/image/webp"

	"screen-snip/src/geom"
)

func testCapture(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 7),
				G: uint8(y * 13),
				B: uint8((x + y) * 3),
				A: 255,
			})
		}
	}
	return img
}

var nameRe = regexp.MustCompile(`^screenshot_(\d+)_Lx(-?\d+)Ty(-?\d+)W(\d+)H(\d+)\.webp$`)

func TestSaveFilename(t *testing.T) {
	root := t.TempDir()
	img := testCapture(200, 150)
	red := geom.Rect{X: 20, Y: 30, W: 64, H: 48}

	path, err := Save(img, red, nil, 200, 150, root)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		t.Fatalf("Rel: %v", err)
	}
	dir, name := filepath.Split(rel)
	if filepath.Clean(dir) != "W200H150" {
		t.Errorf("directory = %q, want W200H150", filepath.Clean(dir))
	}

	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		t.Fatalf("filename %q does not match the naming scheme", name)
	}
	got := [4]int{}
	for i := range got {
		got[i], _ = strconv.Atoi(m[i+2])
	}
	if want := [4]int{red.X, red.Y, red.W, red.H}; got != want {
		t.Errorf("filename coordinates %v, want %v", got, want)
	}
}

func TestSaveRoundTripsPixels(t *testing.T) {
	root := t.TempDir()
	img := testCapture(200, 150)
	red := geom.Rect{X: 20, Y: 30, W: 64, H: 48}

	path, err := Save(img, red, nil, 200, 150, root)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	decoded := decode(t, path)
	b := decoded.Bounds()
	if b.Dx() != red.W || b.Dy() != red.H {
		t.Fatalf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), red.W, red.H)
	}
	for y := 0; y < red.H; y++ {
		for x := 0; x < red.W; x++ {
			wr, wg, wb, wa := img.RGBAAt(red.X+x, red.Y+y).RGBA()
			gr, gg, gb, ga := decoded.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if wr != gr || wg != gg || wb != gb || wa != ga {
				t.Fatalf("pixel (%d,%d) = %v, want %v",
					x, y, [4]uint32{gr, gg, gb, ga}, [4]uint32{wr, wg, wb, wa})
			}
		}
	}
}

func TestSaveGreenPayloadRedName(t *testing.T) {
	root := t.TempDir()
	img := testCapture(200, 150)
	red := geom.Rect{X: 20, Y: 30, W: 100, H: 80}
	green := geom.Rect{X: 40, Y: 50, W: 16, H: 12}

	path, err := Save(img, red, &green, 200, 150, root)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Payload is the sub-region, filename still carries the outer one.
	m := nameRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		t.Fatalf("filename %q does not match the naming scheme", filepath.Base(path))
	}
	if m[2] != "20" || m[3] != "30" || m[4] != "100" || m[5] != "80" {
		t.Errorf("filename carries %s, want the outer rectangle 20/30/100/80", m[0])
	}

	decoded := decode(t, path)
	b := decoded.Bounds()
	if b.Dx() != green.W || b.Dy() != green.H {
		t.Fatalf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), green.W, green.H)
	}
	wr, wg, wb, _ := img.RGBAAt(green.X, green.Y).RGBA()
	gr, gg, gb, _ := decoded.At(b.Min.X, b.Min.Y).RGBA()
	if wr != gr || wg != gg || wb != gb {
		t.Errorf("top-left payload pixel differs: got %v/%v/%v want %v/%v/%v",
			gr, gg, gb, wr, wg, wb)
	}
}

func TestSaveCreateDirFailure(t *testing.T) {
	root := t.TempDir()
	// A plain file where the size directory should go.
	blocker := filepath.Join(root, "W10H10")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Save(testCapture(10, 10), geom.Rect{X: 0, Y: 0, W: 5, H: 5}, nil, 10, 10, root)
	if err == nil {
		t.Fatal("expected an error when the output directory cannot be created")
	}
}

func TestCropIsZeroOrigin(t *testing.T) {
	img := testCapture(50, 50)
	c := crop(img, geom.Rect{X: 10, Y: 20, W: 8, H: 4})
	if c.Bounds().Min != image.Pt(0, 0) {
		t.Errorf("crop origin = %v, want (0,0)", c.Bounds().Min)
	}
	if c.RGBAAt(0, 0) != img.RGBAAt(10, 20) {
		t.Errorf("crop(0,0) = %v, want source (10,20) = %v", c.RGBAAt(0, 0), img.RGBAAt(10, 20))
	}
	// Mutating the crop must not touch the capture.
	before := img.RGBAAt(10, 20)
	c.SetRGBA(0, 0, color.RGBA{A: 255})
	if img.RGBAAt(10, 20) != before {
		t.Error("crop shares backing pixels with the capture")
	}
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	decoded, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if format != "webp" {
		t.Fatalf("decoded format %q, want webp", format)
	}
	return decoded
}
