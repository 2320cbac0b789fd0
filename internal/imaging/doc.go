// Package imaging converts between image files and pixel grids.
//
// It is the only part of cellshade that touches the file system for image
// data. Decoding and encoding are delegated to github.com/disintegration/imaging,
// with the standard decoders plus BMP, TIFF and WebP registered.
//
// # Channel Modes
//
// Decoded images become RGB grids unless they actually carry transparency,
// in which case they become RGBA grids with non-premultiplied alpha.
//
// # Flattening
//
// Formats without an alpha channel (JPEG) receive RGBA grids with alpha
// dropped. The stored colour values are written unchanged; nothing is
// composited against a background.
//
// # Error Handling
//
// Decode failures are reported as *DecodeError and encode failures as
// *EncodeError. Both carry the offending path and unwrap to the cause.
package imaging
