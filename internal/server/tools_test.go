package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"slide_can_open",
		"slide_check_levels",
		"slide_properties",
		"slide_best_level",
		"slide_read_regions",
		"slide_region_preview",
		"slide_associated_images",
		"slide_label_text",
		"slide_backends",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "slide_backends" {
			continue
		}

		t.Run(tool.Name, func(t *testing.T) {
			requiredList, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			props := tool.InputSchema["properties"].(map[string]interface{})
			hasPath := false
			for _, r := range requiredList {
				if r == "path" {
					hasPath = true
				}
				if _, ok := props[r]; !ok {
					t.Errorf("required field %s has no property", r)
				}
			}
			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_ReadRegionsItems(t *testing.T) {
	var tool Tool
	for _, tt := range GetToolDefinitions() {
		if tt.Name == "slide_read_regions" {
			tool = tt
		}
	}

	props := tool.InputSchema["properties"].(map[string]interface{})
	regions, ok := props["regions"].(map[string]interface{})
	if !ok {
		t.Fatal("slide_read_regions should define regions")
	}
	if regions["type"] != "array" {
		t.Errorf("regions type: got %v, want array", regions["type"])
	}

	items := regions["items"].(map[string]interface{})
	required := items["required"].([]string)
	want := []string{"level", "x", "y", "width", "height"}
	if len(required) != len(want) {
		t.Fatalf("required: got %v, want %v", required, want)
	}
	for i := range want {
		if required[i] != want[i] {
			t.Errorf("required[%d]: got %s, want %s", i, required[i], want[i])
		}
	}
}
