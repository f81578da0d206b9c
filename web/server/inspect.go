package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

func pointArray(p core.Point) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

func vectorArray(v core.Vector) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}

func factorArray(f core.Factor) [3]float64 {
	return [3]float64{f.R, f.G, f.B}
}

// extractMaterialInfo lists the Phong coefficients of a material
func extractMaterialInfo(mat material.Material, emission core.Color) map[string]interface{} {
	return map[string]interface{}{
		"kd":        factorArray(mat.KD),
		"ks":        factorArray(mat.KS),
		"ka":        factorArray(mat.KA),
		"kr":        factorArray(mat.KR),
		"kt":        factorArray(mat.KT),
		"shininess": mat.Shininess,
		"emission":  [3]float64{emission.R, emission.G, emission.B},
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(geom geometry.Geometry) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch g := geom.(type) {
	case *geometry.Sphere:
		properties["center"] = pointArray(g.Center)
		properties["radius"] = g.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = pointArray(g.Point)
		properties["normal"] = vectorArray(g.Normal)
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = vertexArrays(g.Vertices())
		return "triangle", properties

	case *geometry.Polygon:
		properties["vertices"] = vertexArrays(g.Vertices())
		return "polygon", properties

	case *geometry.Cylinder:
		properties["axisOrigin"] = pointArray(g.Axis.Origin)
		properties["axisDirection"] = vectorArray(g.Axis.Direction)
		properties["radius"] = g.Radius
		properties["height"] = g.Height
		return "cylinder", properties

	case *geometry.Tube:
		properties["axisOrigin"] = pointArray(g.Axis.Origin)
		properties["axisDirection"] = vectorArray(g.Axis.Direction)
		properties["radius"] = g.Radius
		return "tube", properties

	default:
		return "unknown", properties
	}
}

func vertexArrays(points []core.Point) [][3]float64 {
	result := make([][3]float64, len(points))
	for i, p := range points {
		result[i] = pointArray(p)
	}
	return result
}

// inspectPixel casts the center ray of a pixel and returns the closest hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (geometry.Intersection, bool, error) {
	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		return geometry.Intersection{}, false, err
	}
	if pixelX < 0 || pixelX >= camera.ResolutionX() || pixelY < 0 || pixelY >= camera.ResolutionY() {
		return geometry.Intersection{}, false, fmt.Errorf("pixel coordinates out of bounds")
	}

	ray := camera.ConstructRay(pixelX, pixelY)
	hit, ok := sceneObj.Root.Closest(ray)
	return hit, ok, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to create scene: %v", err))
		return
	}

	hit, ok, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	geometryType, geometryProps := extractGeometryInfo(hit.Geometry)
	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        pointArray(hit.Point),
		Normal:       vectorArray(hit.Normal()),
		Distance:     hit.T,
		Properties: map[string]interface{}{
			"geometry": geometryProps,
			"material": extractMaterialInfo(hit.Material(), hit.Geometry.Emission()),
		},
	}
	writeJSON(w, http.StatusOK, response)
}
