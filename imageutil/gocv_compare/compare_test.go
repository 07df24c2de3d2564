// Package gocv_compare checks the pure Go pipeline against OpenCV's
// resize and k-means. These tests require OpenCV to be installed.
//
// Run with: cd imageutil/gocv_compare && go test -v
package gocv_compare

import (
	"image"
	"testing"

	"github.com/wbrown/dotcraft"
	"github.com/wbrown/dotcraft/imageutil"
	"gocv.io/x/gocv"
)

// bufferToGocv converts a PixelBuffer to a BGR gocv.Mat.
func bufferToGocv(img *imageutil.PixelBuffer) (gocv.Mat, error) {
	return gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, img.BGR())
}

// gocvToBuffer converts a BGR gocv.Mat back to a PixelBuffer.
func gocvToBuffer(mat gocv.Mat) *imageutil.PixelBuffer {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			vec := mat.GetVecbAt(y, x)
			img.SetRGB(x, y, imageutil.RGB{R: vec[2], G: vec[1], B: vec[0]})
		}
	}
	return img
}

func samplesToGocv(samples []imageutil.RGB) gocv.Mat {
	mat := gocv.NewMatWithSize(len(samples), 3, gocv.MatTypeCV32F)
	for i, s := range samples {
		mat.SetFloatAt(i, 0, float32(s.R))
		mat.SetFloatAt(i, 1, float32(s.G))
		mat.SetFloatAt(i, 2, float32(s.B))
	}
	return mat
}

// compactness is the sum of squared distances from each sample to its
// palette color, the quantity cv::kmeans minimizes.
func compactness(samples []imageutil.RGB, p dotcraft.Palette) float64 {
	var sum float64
	for i, s := range samples {
		c := p.Colors[p.Index[i]]
		dr := float64(s.R) - float64(c.R)
		dg := float64(s.G) - float64(c.G)
		db := float64(s.B) - float64(c.B)
		sum += dr*dr + dg*dg + db*db
	}
	return sum
}

func TestBGRMatRoundTrip(t *testing.T) {
	img := imageutil.CreateColorBarsImage(64, 16)
	mat, err := bufferToGocv(img)
	if err != nil {
		t.Fatalf("NewMatFromBytes failed: %v", err)
	}
	defer mat.Close()

	if diff := imageutil.CalculateMaxDiff(img, gocvToBuffer(mat)); diff != 0 {
		t.Errorf("Expected exact round trip, max diff %d", diff)
	}
}

func TestCompareNearestBlockResize(t *testing.T) {
	testCases := []struct {
		name      string
		width     int
		height    int
		blockSize int
	}{
		{"Block 10", 100, 100, 10},
		{"Block 4", 64, 48, 4},
		{"Block 8 wide", 160, 40, 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Block-aligned content, so the sample position inside each
			// block does not matter.
			img := imageutil.CreateCheckerboardImage(tc.width, tc.height, tc.blockSize)
			mat, err := bufferToGocv(img)
			if err != nil {
				t.Fatal(err)
			}
			defer mat.Close()

			smallW, smallH := tc.width/tc.blockSize, tc.height/tc.blockSize
			smallMat := gocv.NewMat()
			defer smallMat.Close()
			gocv.Resize(mat, &smallMat, image.Point{X: smallW, Y: smallH}, 0, 0, gocv.InterpolationNearestNeighbor)
			bigMat := gocv.NewMat()
			defer bigMat.Close()
			gocv.Resize(smallMat, &bigMat, image.Point{X: tc.width, Y: tc.height}, 0, 0, gocv.InterpolationNearestNeighbor)

			small := imageutil.Resize(img, smallW, smallH, imageutil.InterpolationNearest)
			big := imageutil.Resize(small, tc.width, tc.height, imageutil.InterpolationNearest)

			if diff := imageutil.CalculateMaxDiff(gocvToBuffer(smallMat), small); diff != 0 {
				t.Errorf("Downsample differs from OpenCV, max diff %d", diff)
			}
			if diff := imageutil.CalculateMaxDiff(gocvToBuffer(bigMat), big); diff != 0 {
				t.Errorf("Upsample differs from OpenCV, max diff %d", diff)
			}
		})
	}
}

func TestCompareAreaResize(t *testing.T) {
	testCases := []struct {
		name      string
		srcWidth  int
		srcHeight int
		dstWidth  int
		dstHeight int
		threshold float64
	}{
		{"Downscale 2x", 256, 256, 128, 128, 10.0},
		{"Downscale 4x", 256, 256, 64, 64, 15.0},
		{"Arbitrary", 256, 256, 100, 75, 15.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := imageutil.CreateGradientImage(tc.srcWidth, tc.srcHeight)
			mat, err := bufferToGocv(img)
			if err != nil {
				t.Fatal(err)
			}
			defer mat.Close()

			resizedMat := gocv.NewMat()
			defer resizedMat.Close()
			gocv.Resize(mat, &resizedMat, image.Point{X: tc.dstWidth, Y: tc.dstHeight},
				0, 0, gocv.InterpolationArea)

			pureGo := imageutil.Resize(img, tc.dstWidth, tc.dstHeight, imageutil.InterpolationArea)

			mse := imageutil.CalculateMSE(gocvToBuffer(resizedMat), pureGo)
			t.Logf("%s resize MSE: %f", tc.name, mse)
			if mse > tc.threshold {
				t.Errorf("Resize MSE too high: %f (threshold: %f)", mse, tc.threshold)
			}
		})
	}
}

func TestCompareKMeansCompactness(t *testing.T) {
	testCases := []struct {
		name string
		img  *imageutil.PixelBuffer
		k    int
	}{
		{"Noise k=4", imageutil.CreateNoiseImage(40, 30, 11), 4},
		{"Noise k=8", imageutil.CreateNoiseImage(40, 30, 12), 8},
		{"Gradient k=6", imageutil.CreateGradientImage(32, 32), 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			samples := tc.img.Samples()
			data := samplesToGocv(samples)
			defer data.Close()
			labels := gocv.NewMat()
			defer labels.Close()
			centers := gocv.NewMat()
			defer centers.Close()

			criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS,
				dotcraft.DefaultKMeansMaxIterations, dotcraft.DefaultKMeansEpsilon)
			cvCompactness := gocv.KMeans(data, tc.k, &labels, criteria,
				dotcraft.DefaultKMeansAttempts, gocv.KMeansRandomCenters, &centers)

			seed := uint64(1)
			p := dotcraft.KMeansQuantizer{Seed: &seed}.Quantize(samples, tc.k)
			ours := compactness(samples, p)
			t.Logf("%s compactness: opencv %.0f, pure Go %.0f", tc.name, cvCompactness, ours)

			// Rounded centres cost at most 0.75 per sample over float ones.
			limit := cvCompactness*1.10 + 0.75*float64(len(samples))
			if ours > limit {
				t.Errorf("Compactness too high: %.0f (limit: %.0f)", ours, limit)
			}
		})
	}
}

func TestComparePixelatePipeline(t *testing.T) {
	img := imageutil.CreateColorBarsImage(160, 40)
	mat, err := bufferToGocv(img)
	if err != nil {
		t.Fatal(err)
	}
	defer mat.Close()

	const block = 5
	smallMat := gocv.NewMat()
	defer smallMat.Close()
	gocv.Resize(mat, &smallMat, image.Point{X: 160 / block, Y: 40 / block}, 0, 0, gocv.InterpolationNearestNeighbor)
	bigMat := gocv.NewMat()
	defer bigMat.Close()
	gocv.Resize(smallMat, &bigMat, image.Point{X: 160, Y: 40}, 0, 0, gocv.InterpolationNearestNeighbor)

	// Eight bars with eight palette entries: quantization is lossless,
	// so the result must equal OpenCV's plain down/up sampling.
	seed := uint64(3)
	params := dotcraft.Parameters{BlockSize: block, PaletteSize: 8, Algorithm: dotcraft.ClusterQuantize, Seed: &seed}
	out, err := dotcraft.Transform(img, params)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if diff := imageutil.CalculateMaxDiff(gocvToBuffer(bigMat), out); diff != 0 {
		t.Errorf("Pipeline differs from OpenCV, max diff %d", diff)
	}
}
