// Package embroidery stylizes a raster image into a thread-stitched
// embroidery look.
//
// # Overview
//
// The package decomposes stylization into independent analyses — color
// quantization, edge/contour extraction, and local orientation estimation —
// followed by synthesis of thread-like textures aligned to that structure
// and a fixed-order composite into a final image.
//
//	result, err := embroidery.Process(context.Background(), pngBytes, "image/png", embroidery.Options{
//	    MaxColors: 6,
//	    ThreadThickness: 3,
//	})
//
// # Scope
//
// This package implements the image-processing core only: quantization,
// edge detection, orientation estimation, texture synthesis, and
// compositing, plus the caches that make repeat requests cheap. HTTP
// ingress, multipart parsing, worker dispatch, and option-string parsing
// from a wire format are the caller's responsibility; Process accepts an
// already-decoded Options value.
//
// # Determinism
//
// Process is a pure function of its inputs: the same bytes and options
// always produce byte-identical output. There is no GPU acceleration and
// no cross-process cache — the caches are in-memory only. The tile and
// mask caches are scoped to a single Pipeline; the texture-configuration
// cache is package-level and shared by every Pipeline in the process.
package embroidery
