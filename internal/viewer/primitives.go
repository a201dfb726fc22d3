package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"sim-maps/internal/viewer/frame"
)

// primitive is a unit mesh with its lit material. Created lazily on first draw so GPU
// resources are allocated after the window/OpenGL context exists.
type primitive struct {
	mesh rl.Mesh
	mtl  rl.Material
	// offset recentres the mesh in model space before scaling.
	offset [3]float32
}

// primitives caches the unit meshes plus loaded OBJ models by path.
type primitives struct {
	shader   rl.Shader
	cache    map[frame.Shape]*primitive
	models   map[string]rl.Model
	viewPos  [3]float32
	lightDir [3]float32
}

const (
	sphereRings     = 16
	sphereSlices    = 16
	cylinderSlices  = 16
	lightIntensity  = float32(0.75)
	specularPower   = float32(48.0)
	specularFactor  = float32(0.35)
	defaultLightDir = 0.5
)

var (
	ambient    = [4]float32{0.2, 0.22, 0.26, 1.0}
	lightColor = [3]float32{1.0, 0.98, 0.95}
)

func newPrimitives() *primitives {
	return &primitives{
		cache:    make(map[frame.Shape]*primitive),
		models:   make(map[string]rl.Model),
		lightDir: [3]float32{defaultLightDir, 1, defaultLightDir},
	}
}

// setView records the camera position for specular shading this frame.
func (p *primitives) setView(eye [3]float32) { p.viewPos = eye }

func (p *primitives) litShader() rl.Shader {
	if p.shader.ID == 0 {
		p.shader = rl.LoadShaderFromMemory(litVS, litFS)
	}
	return p.shader
}

func (p *primitives) get(s frame.Shape) *primitive {
	if c, ok := p.cache[s]; ok {
		return c
	}
	c := &primitive{}
	switch s {
	case frame.Sphere:
		c.mesh = rl.GenMeshSphere(0.5, sphereRings, sphereSlices)
	case frame.Cylinder:
		c.mesh = rl.GenMeshCylinder(0.5, 1, cylinderSlices)
		// raylib cylinders stand on Y=0
		c.offset = [3]float32{0, -0.5, 0}
	default:
		c.mesh = rl.GenMeshCube(1, 1, 1)
	}
	c.mtl = rl.LoadMaterialDefault()
	if sh := p.litShader(); rl.IsShaderValid(sh) {
		c.mtl.Shader = sh
	}
	p.cache[s] = c
	return c
}

func toColor(it frame.Item) rl.Color {
	return rl.NewColor(it.Color.R, it.Color.G, it.Color.B, it.Color.A)
}

// draw renders one item. Must be called between BeginMode3D and EndMode3D.
func (p *primitives) draw(it frame.Item) {
	if it.Shape == frame.Model {
		p.drawModel(it)
		return
	}
	c := p.get(it.Shape)
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = toColor(it)
	}
	p.setUniforms(c.mtl.Shader)
	// offset, then scale, then rotate, then translate
	m := rl.MatrixTranslate(c.offset[0], c.offset[1], c.offset[2])
	m = rl.MatrixMultiply(m, rl.MatrixScale(it.Scale[0], it.Scale[1], it.Scale[2]))
	if it.Angle != 0 {
		m = rl.MatrixMultiply(m, rl.MatrixRotate(rl.NewVector3(it.Axis[0], it.Axis[1], it.Axis[2]), it.Angle))
	}
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(it.Position[0], it.Position[1], it.Position[2]))
	rl.DrawMesh(c.mesh, c.mtl, m)
}

// drawModel draws an OBJ file, falling back to a cube when it cannot be loaded.
func (p *primitives) drawModel(it frame.Item) {
	model, ok := p.models[it.Path]
	if !ok {
		model = rl.LoadModel(it.Path)
		p.models[it.Path] = model
	}
	if !rl.IsModelValid(model) {
		it.Shape = frame.Cube
		p.draw(it)
		return
	}
	pos := rl.NewVector3(it.Position[0], it.Position[1], it.Position[2])
	axis := rl.NewVector3(it.Axis[0], it.Axis[1], it.Axis[2])
	scale := rl.NewVector3(it.Scale[0], it.Scale[1], it.Scale[2])
	rl.DrawModelEx(model, pos, axis, it.Angle*rl.Rad2deg, scale, toColor(it))
}

// setUniforms feeds the lighting parameters to shader.
func (p *primitives) setUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := p.viewPos
	lightDir := p.lightDir
	amb := ambient
	col := lightColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, col[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{lightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularFactor}, rl.ShaderUniformFloat)
	}
}

// unload frees every GPU resource.
func (p *primitives) unload() {
	for _, c := range p.cache {
		rl.UnloadMesh(&c.mesh)
	}
	for _, m := range p.models {
		if rl.IsModelValid(m) {
			rl.UnloadModel(m)
		}
	}
	if p.shader.ID != 0 {
		rl.UnloadShader(p.shader)
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
)
