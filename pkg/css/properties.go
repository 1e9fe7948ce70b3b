package css

// propertyInfo describes one recognized longhand property's inheritance
// and initial value (spec §4.3.6's "iterate all recognized properties in
// a fixed order").
type propertyInfo struct {
	Inherited bool
	Initial   Value
}

// The four-edge property families below are listed in the fixed order
// shorthand expansion and computation both rely on: top, right, bottom,
// left (border-radius: top-left, top-right, bottom-right, bottom-left).
var marginProps = [4]string{"margin-top", "margin-right", "margin-bottom", "margin-left"}
var paddingProps = [4]string{"padding-top", "padding-right", "padding-bottom", "padding-left"}
var borderWidthProps = [4]string{"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"}
var borderStyleProps = [4]string{"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"}
var borderColorProps = [4]string{"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"}
var borderRadiusProps = [4]string{"border-top-left-radius", "border-top-right-radius", "border-bottom-right-radius", "border-bottom-left-radius"}

// propertyOrder fixes the iteration order computation walks in (spec
// §4.3.6): display, color, font-size, text-align, width, height and
// background-color, then the four-edge families.
var propertyOrder []string

var properties map[string]propertyInfo

func init() {
	properties = map[string]propertyInfo{
		"display":          {Inherited: false, Initial: keywordValue("inline")},
		"color":            {Inherited: true, Initial: Value{Kind: VColor, Color: Color{0, 0, 0, 255}}},
		"background-color": {Inherited: false, Initial: Value{Kind: VColor, Color: Color{0, 0, 0, 0}}},
		"font-size":        {Inherited: true, Initial: pxValue(16)},
		"text-align":       {Inherited: true, Initial: keywordValue("left")},
		"width":            {Inherited: false, Initial: keywordValue("auto")},
		"height":           {Inherited: false, Initial: keywordValue("auto")},
	}
	for _, p := range marginProps {
		properties[p] = propertyInfo{Inherited: false, Initial: pxValue(0)}
	}
	for _, p := range paddingProps {
		properties[p] = propertyInfo{Inherited: false, Initial: pxValue(0)}
	}
	for _, p := range borderWidthProps {
		properties[p] = propertyInfo{Inherited: false, Initial: pxValue(3)} // "medium"
	}
	for _, p := range borderStyleProps {
		properties[p] = propertyInfo{Inherited: false, Initial: keywordValue("none")}
	}
	for _, p := range borderColorProps {
		properties[p] = propertyInfo{Inherited: false, Initial: keywordValue("currentcolor")}
	}
	for _, p := range borderRadiusProps {
		properties[p] = propertyInfo{Inherited: false, Initial: pxValue(0)}
	}

	propertyOrder = []string{"display", "color", "font-size", "text-align",
		"width", "height", "background-color"}
	propertyOrder = append(propertyOrder, marginProps[:]...)
	propertyOrder = append(propertyOrder, paddingProps[:]...)
	propertyOrder = append(propertyOrder, borderWidthProps[:]...)
	propertyOrder = append(propertyOrder, borderStyleProps[:]...)
	propertyOrder = append(propertyOrder, borderColorProps[:]...)
	propertyOrder = append(propertyOrder, borderRadiusProps[:]...)
}

func isRecognized(name string) bool {
	_, ok := properties[name]
	return ok
}

// shorthandLonghands expands box-edge and border shorthands into their
// longhand property lists, in top/right/bottom/left order (spec §4.3.5).
// "background" is a single-longhand alias for background-color, the one
// shorthand form the worked examples use directly.
var shorthandLonghands = map[string][]string{
	"background":    {"background-color"},
	"margin":        marginProps[:],
	"padding":       paddingProps[:],
	"border-width":  borderWidthProps[:],
	"border-style":  borderStyleProps[:],
	"border-color":  borderColorProps[:],
	"border-radius": borderRadiusProps[:],
	"border-top":    {"border-top-width", "border-top-style", "border-top-color"},
	"border-right":  {"border-right-width", "border-right-style", "border-right-color"},
	"border-bottom": {"border-bottom-width", "border-bottom-style", "border-bottom-color"},
	"border-left":   {"border-left-width", "border-left-style", "border-left-color"},
	"border":        {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
		"border-top-style", "border-right-style", "border-bottom-style", "border-left-style",
		"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
}

func isShorthand(name string) bool {
	_, ok := shorthandLonghands[name]
	return ok
}
