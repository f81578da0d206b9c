package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Load
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "xml"
	FilePath    string `json:"filePath"`    // Path to the XML file (xml type only)
}

// builtinScene pairs a built-in scene with its constructor
type builtinScene struct {
	info  SceneInfo
	build func(...renderer.CameraConfig) (*Scene, error)
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", Name: "Default Scene", Description: "Glass sphere with an emissive core, mirror triangle and spot light"}, NewDefaultScene},
	{SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Cornell box with mirror and glass spheres under a soft ceiling light"}, NewCornellScene},
	{SceneInfo{ID: "spheregrid", Name: "Sphere Grid", Description: "20x20 grid of colored spheres, a benchmark for the acceleration modes"}, NewSphereGridScene},
	{SceneInfo{ID: "cylinders", Name: "Cylinders", Description: "Capped cylinders in several orientations and an infinite tube"}, NewCylinderScene},
	{SceneInfo{ID: "mirrors", Name: "Facing Mirrors", Description: "Spheres between two parallel mirrors"}, NewMirrorsScene},
	{SceneInfo{ID: "softshadows", Name: "Soft Shadows", Description: "Area lights casting penumbras"}, NewSoftShadowScene},
}

// SceneDirs are the directories searched for XML scene files
var SceneDirs = []string{"scenes", "../scenes", "../../scenes"}

// Load resolves a scene id: a built-in name or "xml:<name>" for a file discovered
// in SceneDirs. Arbitrary paths are not accepted; use NewXMLScene for those.
func Load(id string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(cameraOverrides...)
		}
	}

	if name, ok := strings.CutPrefix(id, "xml:"); ok {
		scenes, err := ListXMLScenes()
		if err != nil {
			return nil, err
		}
		for _, info := range scenes {
			if info.ID == "xml:"+name {
				return NewXMLScene(info.FilePath, cameraOverrides...)
			}
		}
		return nil, fmt.Errorf("scene file %q not found in %v", name, SceneDirs)
	}

	return nil, fmt.Errorf("unknown scene %q", id)
}

// ListXMLScenes scans the first existing scene directory for XML scene files
func ListXMLScenes() ([]SceneInfo, error) {
	var scenesDir string
	for _, path := range SceneDirs {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}
	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}
	return listXMLScenesIn(scenesDir)
}

func listXMLScenesIn(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := parseXMLMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// parseXMLMetadata reads the optional name and description attributes of the root element
func parseXMLMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "xml:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Type:     "xml",
		FilePath: filePath,
	}

	root, err := loaders.LoadXML(filePath)
	if err != nil {
		return info, err
	}
	if name, ok := root.Attr("name"); ok && name != "" {
		info.Name = name
	}
	if description, ok := root.Attr("description"); ok {
		info.Description = description
	}
	return info, nil
}

// ListAllScenes returns the built-in scenes followed by the discovered XML scenes
func ListAllScenes() ([]SceneInfo, error) {
	all := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.Type = "builtin"
		all = append(all, info)
	}

	xmlScenes, err := ListXMLScenes()
	if err != nil {
		return nil, fmt.Errorf("failed to list XML scenes: %w", err)
	}
	return append(all, xmlScenes...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
