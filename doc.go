/*
Package dds decodes DirectDraw Surface (DDS) textures into linear,
uncompressed pixel buffers.

Decoding parses the fixed 128-byte header, classifies the pixel format,
reads the base-level payload in full and runs the matching decompressor:
DXT1 to DXT5, 3Dc (ATI2), ATI1N, RXGB, half and single precision float
formats, 16-bit RGBA and generic bitmask RGB, ARGB and luminance layouts.
Mipmaps past the base level and cubemap faces are not decoded.

The package also reads Arma/DayZ EDDS (Enfusion DDS) containers, whose
mipmaps are stored as COPY or LZ4 chunk-stream blocks, and registers the
"dds" format with the image package.

Every call works on its own buffers, so decodes may run concurrently.
*/
package dds
