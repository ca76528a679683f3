package solidity

import (
	"errors"
	"strings"
	"testing"
)

const simpleContract = `pragma solidity ^0.8.0;

contract Token {
    function transfer(address to, uint256 amount) public returns (bool) {
        return _move(msg.sender, to, amount);
    }

    function _move(address from, address to, uint256 amount) internal returns (bool) {
        return true;
    }
}
`

func TestExtractFunctions(t *testing.T) {
	decls, err := ExtractFunctions("Token.sol", simpleContract)
	if err != nil {
		t.Fatalf("ExtractFunctions: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("declarations = %d, want 2", len(decls))
	}

	if decls[0].Name != "transfer" || decls[1].Name != "_move" {
		t.Errorf("names = %q, %q", decls[0].Name, decls[1].Name)
	}
	if decls[0].Visibility != VisibilityPublic {
		t.Errorf("transfer visibility = %q, want public", decls[0].Visibility)
	}
	if decls[1].Visibility != VisibilityInternal {
		t.Errorf("_move visibility = %q, want internal", decls[1].Visibility)
	}
	if decls[0].Line != 4 {
		t.Errorf("transfer line = %d, want 4", decls[0].Line)
	}
}

func TestExtractRangesDisjointAscending(t *testing.T) {
	decls, err := ExtractFunctions("Token.sol", simpleContract)
	if err != nil {
		t.Fatal(err)
	}
	prev := 0
	for _, d := range decls {
		if d.FullRange.Start < prev {
			t.Errorf("%s: FullRange %+v overlaps previous (end %d)", d.Name, d.FullRange, prev)
		}
		if d.FullRange.Start > d.SignatureRange.Start || d.FullRange.End < d.SignatureRange.End {
			t.Errorf("%s: SignatureRange %+v escapes FullRange %+v", d.Name, d.SignatureRange, d.FullRange)
		}
		prev = d.FullRange.End
	}
}

func TestExtractSignatureRange(t *testing.T) {
	decls, err := ExtractFunctions("Token.sol", simpleContract)
	if err != nil {
		t.Fatal(err)
	}
	sig := simpleContract[decls[0].SignatureRange.Start:decls[0].SignatureRange.End]
	if !strings.HasPrefix(sig, "function transfer(") {
		t.Errorf("signature starts %q", sig)
	}
	if strings.Contains(sig, "{") {
		t.Errorf("signature includes body brace: %q", sig)
	}
}

func TestExtractIgnoresCommentsAndStrings(t *testing.T) {
	src := `contract C {
    // function ghost() public {}
    /* function phantom() internal { } */
    function real() public {
        emit Log("function fake() {");
    }
}
`
	decls, err := ExtractFunctions("C.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 1 || decls[0].Name != "real" {
		t.Fatalf("declarations = %+v, want only real", decls)
	}
}

func TestExtractSkipsFunctionTypes(t *testing.T) {
	src := `contract C {
    function(uint) internal returns (uint) handler;

    function setHandler(function(uint) internal returns (uint) h) internal {
        handler = h;
    }
}
`
	decls, err := ExtractFunctions("C.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 1 || decls[0].Name != "setHandler" {
		t.Fatalf("declarations = %+v, want only setHandler", decls)
	}
}

func TestExtractBodilessDeclaration(t *testing.T) {
	src := `interface IToken {
    function balanceOf(address owner) external view returns (uint256);
}
`
	decls, err := ExtractFunctions("IToken.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 1 {
		t.Fatalf("declarations = %d, want 1", len(decls))
	}
	d := decls[0]
	if d.Name != "balanceOf" || d.Visibility != VisibilityExternal {
		t.Errorf("decl = %+v", d)
	}
	full := src[d.FullRange.Start:d.FullRange.End]
	if !strings.HasSuffix(full, ";\n") {
		t.Errorf("bodiless FullRange = %q, want through semicolon and newline", full)
	}
}

func TestExtractNatSpecAbsorbed(t *testing.T) {
	src := `contract C {
    /**
     * @notice Does nothing useful.
     */
    function idle() public {}
}
`
	decls, err := ExtractFunctions("C.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 1 {
		t.Fatalf("declarations = %d, want 1", len(decls))
	}
	full := src[decls[0].FullRange.Start:decls[0].FullRange.End]
	if !strings.HasPrefix(strings.TrimLeft(full, " \t"), "/**") {
		t.Errorf("FullRange does not absorb NatSpec: %q", full)
	}
	if !strings.HasSuffix(full, "}\n") {
		t.Errorf("FullRange missing trailing newline: %q", full)
	}
}

func TestExtractPlainCommentNotAbsorbed(t *testing.T) {
	src := `contract C {
    // regular comment, stays
    function idle() public {}
}
`
	decls, err := ExtractFunctions("C.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	full := src[decls[0].FullRange.Start:decls[0].FullRange.End]
	if strings.Contains(full, "regular comment") {
		t.Errorf("line comment wrongly absorbed: %q", full)
	}
}

func TestExtractOverrideFlag(t *testing.T) {
	src := `contract C {
    function hook() public override(Base) returns (uint) {
        return 0;
    }
}
`
	decls, err := ExtractFunctions("C.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	if !decls[0].Override {
		t.Error("override not detected")
	}
}

func TestExtractMalformedBody(t *testing.T) {
	src := `contract C {
    function broken() public {
        if (true) {
}
`
	_, err := ExtractFunctions("Broken.sol", src)
	var merr *MalformedSourceError
	if !errors.As(err, &merr) {
		t.Fatalf("err = %v, want MalformedSourceError", err)
	}
	if merr.Path != "Broken.sol" {
		t.Errorf("path = %q", merr.Path)
	}
}

func TestExtractKeywordBoundary(t *testing.T) {
	src := `contract C {
    uint myfunction;
    function functionality() public {}
}
`
	decls, err := ExtractFunctions("C.sol", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 1 || decls[0].Name != "functionality" {
		t.Fatalf("declarations = %+v", decls)
	}
}
