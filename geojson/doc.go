// Package geojson converts between GeoJSON / TopoJSON text and the geo object model.
//
// Unmarshal accepts any GeoJSON object (geometry, Feature, FeatureCollection)
// and TopoJSON Topology. Members outside the standard set of each type are
// kept in Base.Extra and written back by Marshal, so pass-through extension
// fields such as "bbox" or "crs" survive a round trip through geobuf.
//
// An object whose "type" is not in the type table decodes to *geo.Unknown;
// it is the only place where that variant is produced. Encoding such an
// object to geobuf fails with errs.ErrSchema.
//
// Numbers are decoded with UseNumber so that integral property values and
// ids keep their exact integer value.
package geojson
