// Package codec turns encoded value trees into bytes and back.
//
// Every codec writes a value.Value produced by the encoder. Codecs are
// selected by their stable name (see ByName), which is also what the
// payload CLI accepts for --format and --input-format. Compression is
// applied to codec output as a separate step (see Compress).
package codec
