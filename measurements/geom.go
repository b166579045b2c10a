package measurements

import (
	"math"
)

// Rectangle is an axis-aligned bounding box as produced by a detector
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRect(x, y, width, height float64) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Center returns center of the rectangle
func (rect Rectangle) Center() Point {
	return Point{
		X: rect.X + rect.Width/2.0,
		Y: rect.Y + rect.Height/2.0,
	}
}

// Features returns feature vector [cx, cy, w, h] of the rectangle
func (rect Rectangle) Features() []float64 {
	center := rect.Center()
	return []float64{center.X, center.Y, rect.Width, rect.Height}
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
