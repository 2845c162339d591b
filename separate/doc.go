// Package separate schedules a mask-prediction model over an arbitrarily long
// spectrogram and splits the spectrogram into the masked component
// (instruments) and its residual (vocals).
//
// The model sees fixed-width crops. Each crop carries Offset frames of context
// on both sides, so only its central Stride = CropWidth - 2*Offset frames
// contribute to the output mask. The pipeline is:
//
//  1. [MakePadding] pads the input so the usable region is a whole number of
//     strides and every input frame falls inside some crop's central region.
//  2. [Patches] cuts the padded spectrogram into crops spaced Stride apart.
//  3. [Predictor] feeds crops to the [Model] in batches and stitches the
//     returned per-crop masks back together in order.
//  4. [Separator] trims the stitched mask to the input length and, with
//     test-time augmentation enabled, averages it with a second pass whose
//     crop grid is shifted by half a stride.
//  5. [Split] optionally smooths the mask with an [ArtifactFilter] and
//     applies it.
//
// Batch size and parallelism are performance knobs only: the reassembled
// mask does not depend on them.
package separate
