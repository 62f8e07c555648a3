// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SolidVertexShader is the vertex shader for the shell and growth tubes.
//
//go:embed solid.vert
var SolidVertexShader string

// SolidFragmentShader is the fragment shader for the shell and growth tubes.
//
//go:embed solid.frag
var SolidFragmentShader string

// MirrorVertexShader is the vertex shader for the mirror wall quads.
//
//go:embed mirror.vert
var MirrorVertexShader string

// MirrorFragmentShader is the fragment shader for the mirror wall quads.
//
//go:embed mirror.frag
var MirrorFragmentShader string
