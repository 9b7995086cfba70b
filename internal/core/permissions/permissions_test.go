package permissions

import "testing"

func TestBuildMatrixAndResolve(t *testing.T) {
	m := BuildMatrix([]FacilityGrant{
		{
			Facility: "Plant 1",
			Roles: []RoleGrant{
				{Role: "Employee", Permissions: []Action{ActionRead}},
				{Role: "FacAdmin", Permissions: []Action{ActionRead, ActionWrite}},
			},
		},
	})

	employee := m.Resolve("Plant 1", "Employee")
	if !employee.Can(EntityReport, ActionRead) {
		t.Error("employee should read reports")
	}
	if employee.Can(EntityReport, ActionWrite) {
		t.Error("employee should not write reports")
	}

	facAdmin := m.Resolve("Plant 1", "FacAdmin")
	if !facAdmin.Can(EntityBill, ActionWrite) {
		t.Error("facadmin should write bills")
	}
}

func TestAdminImpliesReadAndWrite(t *testing.T) {
	m := BuildMatrix([]FacilityGrant{
		{
			Facility: "Plant 1",
			Roles:    []RoleGrant{{Role: "Admin", Permissions: []Action{ActionAdmin}}},
		},
	})

	set := m.Resolve("Plant 1", "Admin")
	if !set.Can(EntityReport, ActionRead) || !set.Can(EntityReport, ActionWrite) {
		t.Error("admin grant should imply read and write")
	}
	if !set.Can(EntityReport, ActionAdmin) {
		t.Error("admin grant should include admin itself")
	}
}

func TestResolveMissingFacilityOrRole(t *testing.T) {
	m := BuildMatrix([]FacilityGrant{
		{
			Facility: "Plant 1",
			Roles:    []RoleGrant{{Role: "Employee", Permissions: []Action{ActionRead}}},
		},
	})

	if set := m.Resolve("Plant 2", "Employee"); set.Can(EntityReport, ActionRead) {
		t.Error("unknown facility should resolve to empty set")
	}
	if set := m.Resolve("Plant 1", "Admin"); set.Can(EntityReport, ActionRead) {
		t.Error("unknown role should resolve to empty set")
	}
}

func TestDescribe(t *testing.T) {
	m := BuildMatrix([]FacilityGrant{
		{
			Facility: "Plant 1",
			Roles:    []RoleGrant{{Role: "Admin", Permissions: []Action{ActionAdmin}}},
		},
	})

	desc := Describe(m.Resolve("Plant 1", "Admin"))
	if got := desc[EntityReport]; len(got) != 3 {
		t.Errorf("admin grant should expand to read, write and admin, got %v", got)
	}

	desc = Describe(CapabilitySet{})
	if got := desc[EntityReport]; len(got) != 0 {
		t.Errorf("empty set should describe no report actions, got %v", got)
	}
	if _, ok := desc[EntityBill]; !ok {
		t.Error("description should list every entity, empty or not")
	}
}

func TestParseMatrix(t *testing.T) {
	raw := []byte(`[{"facility":"Plant 1","roles":[{"role":"Employee","permissions":["read"]}]}]`)
	m := ParseMatrix(raw)
	if !m.Resolve("Plant 1", "Employee").Can(EntityBill, ActionRead) {
		t.Error("parsed matrix should grant read on bills")
	}
}

func TestParseMatrixMalformed(t *testing.T) {
	m := ParseMatrix([]byte(`{"not":"an array"`))
	if len(m) != 0 {
		t.Errorf("malformed input should yield an empty matrix, got %v", m)
	}
}
